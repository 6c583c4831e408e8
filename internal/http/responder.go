package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/standup-notifier/internal/application"
	"github.com/example/standup-notifier/internal/persistence"
	"github.com/example/standup-notifier/internal/zoom"
)

var (
	errBodyUnreadable   = errors.New("request body could not be read")
	errInvalidSignature = errors.New("invalid request signature")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed",
			"status", status, "error", err, "error_kind", application.ErrorKind(err))
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleTrackerError maps tracker and parser errors onto the webhook's
// status contract.
func (r responder) handleTrackerError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrConflict):
		r.writeError(ctx, w, http.StatusBadRequest, err)
	case errors.Is(err, application.ErrUnsupportedEvent):
		r.writeError(ctx, w, http.StatusBadRequest, err)
	case errors.Is(err, persistence.ErrConcurrencyConflict):
		// The store record changed between read and write; the sender may
		// retry the delivery.
		r.writeError(ctx, w, http.StatusInternalServerError, err)
	default:
		r.writeError(ctx, w, http.StatusInternalServerError, err)
	}
}

// handleParseError maps payload decoding failures to 400 with the offending
// field named in the message.
func (r responder) handleParseError(ctx context.Context, w http.ResponseWriter, err error) {
	var fieldErr *zoom.FieldError
	switch {
	case errors.Is(err, zoom.ErrInvalidJSON), errors.As(err, &fieldErr):
		r.writeError(ctx, w, http.StatusBadRequest, err)
	default:
		r.writeError(ctx, w, http.StatusInternalServerError, err)
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

type errorResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}
