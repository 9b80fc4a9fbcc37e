package researcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/scholard/internal/logging"
	"github.com/fyrsmithlabs/scholard/internal/store"
)

const (
	connectionPrefix   = "connection/"
	notificationPrefix = "notification/"
)

var (
	// ErrDuplicateRequest is returned when a pending or accepted request
	// already links the two researchers.
	ErrDuplicateRequest = errors.New("connection request already exists")

	// ErrSelfConnection is returned when a researcher tries to connect to themselves.
	ErrSelfConnection = errors.New("cannot connect to yourself")

	// ErrInvalidStatus is returned for a response other than accepted or rejected.
	ErrInvalidStatus = errors.New("invalid connection status")

	// ErrAlreadyResponded is returned when responding to a request that is no longer pending.
	ErrAlreadyResponded = errors.New("connection request already answered")
)

// Status is the state of a connection request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	// StatusNone is reported when no request links two researchers.
	StatusNone Status = "none"
)

// ParseStatus parses a response status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusAccepted, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidStatus)
	}
}

// Request is a connection request between two researchers.
type Request struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationRequest  NotificationType = "connection_request"
	NotificationResponse NotificationType = "connection_response"
)

// Notification tells a researcher about connection activity.
type Notification struct {
	ID           string           `json:"id"`
	ResearcherID string           `json:"researcher_id"`
	Type         NotificationType `json:"type"`
	Message      string           `json:"message"`
	RequestID    string           `json:"request_id"`
	Read         bool             `json:"read"`
	CreatedAt    time.Time        `json:"created_at"`
}

// SendRequest creates a pending connection request from one researcher to another.
func (d *Directory) SendRequest(ctx context.Context, from, to, message string) (Request, error) {
	if from == to {
		return Request{}, ErrSelfConnection
	}
	if _, err := d.Get(ctx, to); err != nil {
		return Request{}, err
	}

	existing, err := d.requests(ctx)
	if err != nil {
		return Request{}, err
	}
	for _, r := range existing {
		if r.Status == StatusRejected {
			continue
		}
		if (r.From == from && r.To == to) || (r.From == to && r.To == from) {
			return Request{}, fmt.Errorf("%s -> %s: %w", from, to, ErrDuplicateRequest)
		}
	}

	now := d.now().UTC()
	req := Request{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Message:   message,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.store.Set(ctx, connectionPrefix+req.ID, req); err != nil {
		return Request{}, fmt.Errorf("save connection request: %w", err)
	}
	if err := d.notify(ctx, to, NotificationRequest, "New connection request from researcher", req.ID); err != nil {
		return Request{}, err
	}

	logging.FromContext(ctx).Info(ctx, "connection request sent",
		zap.String("request_id", req.ID),
		zap.String("from", from),
		zap.String("to", to),
	)
	return req, nil
}

// Respond accepts or rejects a pending request and notifies the sender.
func (d *Directory) Respond(ctx context.Context, id string, status Status) (Request, error) {
	if status != StatusAccepted && status != StatusRejected {
		return Request{}, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}
	req, err := d.Request(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, fmt.Errorf("request %s is %s: %w", id, req.Status, ErrAlreadyResponded)
	}

	req.Status = status
	req.UpdatedAt = d.now().UTC()
	if err := d.store.Set(ctx, connectionPrefix+req.ID, req); err != nil {
		return Request{}, fmt.Errorf("save connection request: %w", err)
	}
	msg := fmt.Sprintf("Your connection request was %s", status)
	if err := d.notify(ctx, req.From, NotificationResponse, msg, req.ID); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Request returns a connection request by ID.
func (d *Directory) Request(ctx context.Context, id string) (Request, error) {
	var req Request
	if err := d.store.Get(ctx, connectionPrefix+id, &req); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Request{}, fmt.Errorf("connection request %s: %w", id, ErrNotFound)
		}
		return Request{}, err
	}
	return req, nil
}

// Incoming returns the pending requests addressed to a researcher.
func (d *Directory) Incoming(ctx context.Context, researcherID string) ([]Request, error) {
	return d.filterRequests(ctx, func(r Request) bool {
		return r.To == researcherID && r.Status == StatusPending
	})
}

// Sent returns every request a researcher has sent.
func (d *Directory) Sent(ctx context.Context, researcherID string) ([]Request, error) {
	return d.filterRequests(ctx, func(r Request) bool {
		return r.From == researcherID
	})
}

// Connections returns the accepted requests involving a researcher.
func (d *Directory) Connections(ctx context.Context, researcherID string) ([]Request, error) {
	return d.filterRequests(ctx, func(r Request) bool {
		return r.Status == StatusAccepted && (r.From == researcherID || r.To == researcherID)
	})
}

// ConnectionStatus reports the state of the most recent request between two
// researchers in either direction, or StatusNone.
func (d *Directory) ConnectionStatus(ctx context.Context, a, b string) (Status, error) {
	rs, err := d.filterRequests(ctx, func(r Request) bool {
		return (r.From == a && r.To == b) || (r.From == b && r.To == a)
	})
	if err != nil {
		return "", err
	}
	if len(rs) == 0 {
		return StatusNone, nil
	}
	return rs[len(rs)-1].Status, nil
}

// Notifications returns a researcher's notifications, newest first.
func (d *Directory) Notifications(ctx context.Context, researcherID string) ([]Notification, error) {
	ns, err := store.List[Notification](ctx, d.store, notificationPrefix+researcherID+"/")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ns, func(i, j int) bool {
		return ns[i].CreatedAt.After(ns[j].CreatedAt)
	})
	return ns, nil
}

// MarkRead marks one notification as read.
func (d *Directory) MarkRead(ctx context.Context, researcherID, notificationID string) error {
	key := notificationPrefix + researcherID + "/" + notificationID
	var n Notification
	if err := d.store.Get(ctx, key, &n); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("notification %s: %w", notificationID, ErrNotFound)
		}
		return err
	}
	n.Read = true
	return d.store.Set(ctx, key, n)
}

func (d *Directory) notify(ctx context.Context, researcherID string, typ NotificationType, msg, requestID string) error {
	n := Notification{
		ID:           uuid.NewString(),
		ResearcherID: researcherID,
		Type:         typ,
		Message:      msg,
		RequestID:    requestID,
		CreatedAt:    d.now().UTC(),
	}
	if err := d.store.Set(ctx, notificationPrefix+researcherID+"/"+n.ID, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	return nil
}

// requests returns every stored request, oldest first.
func (d *Directory) requests(ctx context.Context) ([]Request, error) {
	rs, err := store.List[Request](ctx, d.store, connectionPrefix)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.Before(rs[j].CreatedAt)
		}
		return rs[i].ID < rs[j].ID
	})
	return rs, nil
}

func (d *Directory) filterRequests(ctx context.Context, keep func(Request) bool) ([]Request, error) {
	all, err := d.requests(ctx)
	if err != nil {
		return nil, err
	}
	out := []Request{}
	for _, r := range all {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
