package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/scholard/internal/citation"
	"github.com/fyrsmithlabs/scholard/internal/logging"
	"github.com/fyrsmithlabs/scholard/internal/researcher"
)

func (s *Server) handleHealth(c echo.Context) error {
	resp := HealthResponse{
		Status:  "ok",
		Version: s.config.Version,
		Papers:  len(s.registry.Citations().Papers()),
	}
	if s.config.Health != nil {
		h := s.config.Health()
		if h.Degraded {
			resp.Status = "degraded"
			resp.Degraded = true
			resp.Reasons = h.Reasons
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// bindText decodes a TextRequest. Empty text is valid input for every
// transform.
func bindText(c echo.Context) (string, error) {
	var req TextRequest
	if err := c.Bind(&req); err != nil {
		logging.FromContext(c.Request().Context()).Warn(c.Request().Context(), "invalid text request", zap.Error(err))
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return req.Text, nil
}

func bindQuery(c echo.Context) (string, error) {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return req.Query, nil
}

func (s *Server) handleFlashcards(c echo.Context) error {
	text, err := bindText(c)
	if err != nil {
		return err
	}
	cards, err := s.registry.Transform().Flashcards(c.Request().Context(), text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, cards)
}

func (s *Server) handleFlowchart(c echo.Context) error {
	text, err := bindText(c)
	if err != nil {
		return err
	}
	chart, err := s.registry.Transform().Flowchart(c.Request().Context(), text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, chart)
}

func (s *Server) handleSimplify(c echo.Context) error {
	text, err := bindText(c)
	if err != nil {
		return err
	}
	out, err := s.registry.Transform().Simplify(c.Request().Context(), text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleConcepts(c echo.Context) error {
	text, err := bindText(c)
	if err != nil {
		return err
	}
	out, err := s.registry.Transform().Concepts(c.Request().Context(), text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCitationSearch(c echo.Context) error {
	query, err := bindQuery(c)
	if err != nil {
		return err
	}
	matches, err := s.registry.Citations().Search(c.Request().Context(), query)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, CitationSearchResponse{Query: query, Results: matches})
}

func (s *Server) handleCitationFormat(c echo.Context) error {
	var req FormatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.PaperID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "paper_id field is required")
	}
	style := citation.StyleAPA
	if req.Style != "" {
		var err error
		if style, err = citation.ParseStyle(req.Style); err != nil {
			return toHTTPError(err)
		}
	}

	ctx := c.Request().Context()
	formatted, err := s.registry.Citations().Format(ctx, req.PaperID, style)
	if err != nil {
		return toHTTPError(err)
	}
	paper, err := s.registry.Citations().Get(req.PaperID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, FormatResponse{
		PaperID:    req.PaperID,
		Style:      style,
		Citation:   formatted,
		SourceURL:  citation.SourceURL(paper),
		Accessible: citation.IsAccessible(paper),
	})
}

func (s *Server) handleListResearchers(c echo.Context) error {
	list, err := s.registry.Researchers().List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleAddResearcher(c echo.Context) error {
	var r researcher.Researcher
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	added, err := s.registry.Researchers().Add(c.Request().Context(), r)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, added)
}

func (s *Server) handleGetResearcher(c echo.Context) error {
	r, err := s.registry.Researchers().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) handleResearcherSearch(c echo.Context) error {
	query, err := bindQuery(c)
	if err != nil {
		return err
	}
	matches, err := s.registry.Researchers().Search(c.Request().Context(), query)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ResearcherSearchResponse{Query: query, Results: matches})
}

func (s *Server) handleSendConnection(c echo.Context) error {
	var req ConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.From == "" || req.To == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "from and to fields are required")
	}
	sent, err := s.registry.Researchers().SendRequest(c.Request().Context(), req.From, req.To, req.Message)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, sent)
}

func (s *Server) handleRespondConnection(c echo.Context) error {
	var req RespondRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	status, err := researcher.ParseStatus(req.Status)
	if err != nil {
		return toHTTPError(err)
	}
	updated, err := s.registry.Researchers().Respond(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleConnections(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("researcher")
	dir := s.registry.Researchers()
	if _, err := dir.Get(ctx, id); err != nil {
		return toHTTPError(err)
	}

	resp := ConnectionsResponse{ResearcherID: id}
	var err error
	if resp.Incoming, err = dir.Incoming(ctx, id); err != nil {
		return toHTTPError(err)
	}
	if resp.Sent, err = dir.Sent(ctx, id); err != nil {
		return toHTTPError(err)
	}
	if resp.Connected, err = dir.Connections(ctx, id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	ns, err := s.registry.Researchers().Notifications(ctx, id)
	if err != nil {
		return toHTTPError(err)
	}
	resp := NotificationsResponse{ResearcherID: id, Notifications: ns}
	for _, n := range ns {
		if !n.Read {
			resp.Unread++
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMarkRead(c echo.Context) error {
	if err := s.registry.Researchers().MarkRead(c.Request().Context(), c.Param("id"), c.Param("nid")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
