package handler

import (
	"net/http"

	"github.com/efreeman/world-war/api/internal/auth"
	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/internal/service"
)

// MessageHandler handles chat endpoints.
type MessageHandler struct {
	store    *game.Store
	sessions *service.SessionService
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(store *game.Store, sessions *service.SessionService) *MessageHandler {
	return &MessageHandler{store: store, sessions: sessions}
}

// ListMessages handles GET /api/v1/messages — public chat plus the caller's
// direct messages.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var visible []model.Message
	for _, m := range h.store.State().Messages {
		if m.RecipientID == "" || m.RecipientID == userID || m.SenderID == userID {
			visible = append(visible, m)
		}
	}
	if visible == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, visible)
}

// SendMessage handles POST /api/v1/messages.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		RecipientID string `json:"recipient_id,omitempty"`
		Content     string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	msg, err := h.sessions.SendMessage(r.Context(), userID, req.RecipientID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
