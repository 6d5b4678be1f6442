package handler

import (
	"net/http"

	"github.com/efreeman/world-war/api/internal/auth"
	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/internal/service"
)

// GameHandler serves the world state read surface and country selection.
type GameHandler struct {
	store    *game.Store
	sessions *service.SessionService
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(store *game.Store, sessions *service.SessionService) *GameHandler {
	return &GameHandler{store: store, sessions: sessions}
}

// GetState handles GET /api/v1/state — the full world tree.
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.State())
}

// ListCountries handles GET /api/v1/countries.
func (h *GameHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	st := h.store.State()
	if st.Countries == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, st.Countries)
}

// SelectCountry handles POST /api/v1/countries/{id}/select.
func (h *GameHandler) SelectCountry(w http.ResponseWriter, r *http.Request) {
	countryID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	user, err := h.sessions.SelectCountry(r.Context(), userID, countryID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetMe handles GET /api/v1/users/me.
func (h *GameHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	u := h.store.State().UserByID(userID)
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// GetUser handles GET /api/v1/users/{id}.
func (h *GameHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u := h.store.State().UserByID(r.PathValue("id"))
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ListUsers handles GET /api/v1/users.
func (h *GameHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	st := h.store.State()
	if st.Users == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, st.Users)
}

// ListNotifications handles GET /api/v1/notifications — the caller's feed.
func (h *GameHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var own []model.Notification
	for _, n := range h.store.State().Notifications {
		if n.UserID == userID {
			own = append(own, n)
		}
	}
	if own == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, own)
}

// ListEvents handles GET /api/v1/events — active world events.
func (h *GameHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	st := h.store.State()
	if st.GameEvents == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, st.GameEvents)
}
