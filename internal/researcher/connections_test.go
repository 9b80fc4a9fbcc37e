package researcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededDirectory(t *testing.T) *Directory {
	t.Helper()
	d := newTestDirectory(t)
	_, err := d.Seed(context.Background(), seedResearchers())
	require.NoError(t, err)
	return d
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"accepted", StatusAccepted, false},
		{" Rejected ", StatusRejected, false},
		{"pending", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSendRequest(t *testing.T) {
	ctx := context.Background()
	d := seededDirectory(t)

	req, err := d.SendRequest(ctx, "r_ml", "r_bio", "Let's collaborate")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	assert.NotEmpty(t, req.ID)

	incoming, err := d.Incoming(ctx, "r_bio")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, req.ID, incoming[0].ID)

	sent, err := d.Sent(ctx, "r_ml")
	require.NoError(t, err)
	require.Len(t, sent, 1)

	notes, err := d.Notifications(ctx, "r_bio")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, NotificationRequest, notes[0].Type)
	assert.Equal(t, "New connection request from researcher", notes[0].Message)
	assert.False(t, notes[0].Read)
}

func TestSendRequest_Errors(t *testing.T) {
	ctx := context.Background()
	d := seededDirectory(t)

	_, err := d.SendRequest(ctx, "r_ml", "r_ml", "")
	assert.ErrorIs(t, err, ErrSelfConnection)

	_, err = d.SendRequest(ctx, "r_ml", "ghost", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.SendRequest(ctx, "r_ml", "r_bio", "")
	require.NoError(t, err)
	_, err = d.SendRequest(ctx, "r_ml", "r_bio", "again")
	assert.ErrorIs(t, err, ErrDuplicateRequest)
	_, err = d.SendRequest(ctx, "r_bio", "r_ml", "reverse")
	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestRespond(t *testing.T) {
	ctx := context.Background()
	d := seededDirectory(t)

	req, err := d.SendRequest(ctx, "r_ml", "r_bio", "")
	require.NoError(t, err)

	_, err = d.Respond(ctx, req.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := d.Respond(ctx, req.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	_, err = d.Respond(ctx, req.ID, StatusRejected)
	assert.ErrorIs(t, err, ErrAlreadyResponded)

	_, err = d.Respond(ctx, "missing", StatusAccepted)
	assert.ErrorIs(t, err, ErrNotFound)

	notes, err := d.Notifications(ctx, "r_ml")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Your connection request was accepted", notes[0].Message)
	assert.Equal(t, NotificationResponse, notes[0].Type)

	incoming, err := d.Incoming(ctx, "r_bio")
	require.NoError(t, err)
	assert.Empty(t, incoming)

	conns, err := d.Connections(ctx, "r_bio")
	require.NoError(t, err)
	assert.Len(t, conns, 1)
}

func TestConnectionStatus(t *testing.T) {
	ctx := context.Background()
	d := seededDirectory(t)

	st, err := d.ConnectionStatus(ctx, "r_ml", "r_bio")
	require.NoError(t, err)
	assert.Equal(t, StatusNone, st)

	req, err := d.SendRequest(ctx, "r_ml", "r_bio", "")
	require.NoError(t, err)
	_, err = d.Respond(ctx, req.ID, StatusRejected)
	require.NoError(t, err)

	st, err = d.ConnectionStatus(ctx, "r_bio", "r_ml")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, st)

	// A rejected request does not block a new one.
	_, err = d.SendRequest(ctx, "r_bio", "r_ml", "second try")
	require.NoError(t, err)
	st, err = d.ConnectionStatus(ctx, "r_ml", "r_bio")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	d := seededDirectory(t)

	_, err := d.SendRequest(ctx, "r_ml", "r_bio", "")
	require.NoError(t, err)
	notes, err := d.Notifications(ctx, "r_bio")
	require.NoError(t, err)
	require.Len(t, notes, 1)

	require.NoError(t, d.MarkRead(ctx, "r_bio", notes[0].ID))
	notes, err = d.Notifications(ctx, "r_bio")
	require.NoError(t, err)
	assert.True(t, notes[0].Read)

	assert.ErrorIs(t, d.MarkRead(ctx, "r_bio", "missing"), ErrNotFound)
}
