package httpapi

import (
	"context"
	"log/slog"

	"github.com/Jamie-38/irc-message-relay/internal/events"
)

// History is the read side of the archive.
type History interface {
	Recent(ctx context.Context, limit int) ([]events.Envelope, error)
	ByKey(ctx context.Context, key string, limit int) ([]events.Envelope, error)
}

// APIController serves message intake and, when History is set, the
// archive view. A nil Submit disables intake.
type APIController struct {
	Submit  chan<- events.Event
	History History
	lg      *slog.Logger
}

// messageRequest is the intake body. Tags only count when Extended is set.
type messageRequest struct {
	Extended bool         `json:"extended"`
	Tags     []requestTag `json:"tags"`
	Prefix   string       `json:"prefix"`
	Command  string       `json:"command"`
	Params   []string     `json:"params"`
	Trail    string       `json:"trail"`
}

type requestTag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type acceptedResponse struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Rendered string `json:"rendered"`
}
