package http

import (
	"github.com/fyrsmithlabs/scholard/internal/citation"
	"github.com/fyrsmithlabs/scholard/internal/researcher"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string   `json:"status"`
	Version  string   `json:"version,omitempty"`
	Papers   int      `json:"papers"`
	Degraded bool     `json:"degraded,omitempty"`
	Reasons  []string `json:"reasons,omitempty"`
}

// TextRequest is the request body for the /notes endpoints.
type TextRequest struct {
	Text string `json:"text"`
}

// SearchRequest is the request body for the search endpoints.
type SearchRequest struct {
	Query string `json:"query"`
}

// CitationSearchResponse is the response body for POST /api/v1/citations/search.
type CitationSearchResponse struct {
	Query   string           `json:"query"`
	Results []citation.Match `json:"results"`
}

// FormatRequest is the request body for POST /api/v1/citations/format.
type FormatRequest struct {
	PaperID string `json:"paper_id"`
	// Style defaults to APA.
	Style string `json:"style,omitempty"`
}

// FormatResponse is the response body for POST /api/v1/citations/format.
type FormatResponse struct {
	PaperID    string         `json:"paper_id"`
	Style      citation.Style `json:"style"`
	Citation   string         `json:"citation"`
	SourceURL  string         `json:"source_url"`
	Accessible bool           `json:"accessible"`
}

// ResearcherSearchResponse is the response body for POST /api/v1/researchers/search.
type ResearcherSearchResponse struct {
	Query   string             `json:"query"`
	Results []researcher.Match `json:"results"`
}

// ConnectionRequest is the request body for POST /api/v1/connections.
type ConnectionRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message,omitempty"`
}

// RespondRequest is the request body for POST /api/v1/connections/:id/respond.
type RespondRequest struct {
	Status string `json:"status"`
}

// ConnectionsResponse is the response body for GET /api/v1/connections/:researcher.
type ConnectionsResponse struct {
	ResearcherID string               `json:"researcher_id"`
	Incoming     []researcher.Request `json:"incoming"`
	Sent         []researcher.Request `json:"sent"`
	Connected    []researcher.Request `json:"connected"`
}

// NotificationsResponse is the response body for
// GET /api/v1/researchers/:id/notifications.
type NotificationsResponse struct {
	ResearcherID  string                    `json:"researcher_id"`
	Unread        int                       `json:"unread"`
	Notifications []researcher.Notification `json:"notifications"`
}
