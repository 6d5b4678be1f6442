package handler

import (
	"net/http"

	"github.com/efreeman/world-war/api/internal/auth"
	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/service"
	"github.com/efreeman/world-war/api/pkg/battle"
)

// WarHandler handles war declaration, reinforcement, and retreat.
type WarHandler struct {
	store *game.Store
	wars  *service.WarService
}

// NewWarHandler creates a WarHandler.
func NewWarHandler(store *game.Store, wars *service.WarService) *WarHandler {
	return &WarHandler{store: store, wars: wars}
}

// ListWars handles GET /api/v1/wars.
func (h *WarHandler) ListWars(w http.ResponseWriter, r *http.Request) {
	st := h.store.State()
	if st.Wars == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, st.Wars)
}

// GetWar handles GET /api/v1/wars/{id}.
func (h *WarHandler) GetWar(w http.ResponseWriter, r *http.Request) {
	war := h.store.State().WarByID(r.PathValue("id"))
	if war == nil {
		writeError(w, http.StatusNotFound, "war not found")
		return
	}
	writeJSON(w, http.StatusOK, war)
}

// DeclareWar handles POST /api/v1/wars.
func (h *WarHandler) DeclareWar(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		DefenderID string       `json:"defender_id"`
		Force      battle.Force `json:"force"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	war, err := h.wars.DeclareWar(r.Context(), userID, req.DefenderID, req.Force)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, war)
}

// Reinforce handles POST /api/v1/wars/{id}/reinforce.
func (h *WarHandler) Reinforce(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		Force battle.Force `json:"force"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	war, err := h.wars.Reinforce(r.Context(), r.PathValue("id"), userID, req.Force)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, war)
}

// Retreat handles POST /api/v1/wars/{id}/retreat.
func (h *WarHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	war, err := h.wars.Retreat(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, war)
}
