package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/example/standup-notifier/internal/zoom"
)

// maxBodyBytes bounds webhook payloads; Zoom presence events are small.
const maxBodyBytes = 1 << 20

type sharingTracker interface {
	HandleEvent(ctx context.Context, event zoom.Event) error
}

type signatureValidator interface {
	Validate(headers http.Header, body []byte) bool
}

// WebhookHandler receives Zoom presence webhooks, authenticates the payload
// signature and forwards the validated event to the tracker.
type WebhookHandler struct {
	verifier  signatureValidator
	tracker   sharingTracker
	responder responder
}

func NewWebhookHandler(verifier signatureValidator, tracker sharingTracker, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, tracker: tracker, responder: newResponder(logger)}
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.verifier == nil || h.tracker == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBodyUnreadable)
		return
	}

	if !h.verifier.Validate(r.Header, body) {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errInvalidSignature)
		return
	}

	event, err := zoom.ParseEvent(body)
	if err != nil {
		h.responder.handleParseError(r.Context(), w, err)
		return
	}

	if err := h.tracker.HandleEvent(r.Context(), event); err != nil {
		h.responder.handleTrackerError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "ok"})
}
