package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"driftboard/internal/core"
	"driftboard/internal/external"
	"driftboard/internal/types"
)

// SessionBroker mints realtime voice session credentials.
type SessionBroker interface {
	CreateSession(ctx context.Context, req external.SessionRequest) (*types.VoiceSession, error)
}

// VoiceHandler brokers short-lived voice session credentials for the
// browser client.
type VoiceHandler struct {
	Broker SessionBroker
}

// Routes mounts the voice endpoints.
func (h *VoiceHandler) Routes(r chi.Router) {
	r.Post("/voice/session", h.HandleCreateSession)
}

// HandleCreateSession serves POST /v1/voice/session. The body is
// optional; when present it may override the model, voice, or
// instructions for the session.
func (h *VoiceHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req external.SessionRequest
	if r.ContentLength != 0 {
		if err := core.DecodeJSON(w, r, &req); err != nil {
			core.Error(w, r, err)
			return
		}
	}

	session, err := h.Broker.CreateSession(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusCreated, session)
}
