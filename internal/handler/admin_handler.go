package handler

import (
	"net/http"
	"time"

	"github.com/efreeman/world-war/api/internal/auth"
	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/internal/service"
)

// AdminHandler handles moderation and world tuning endpoints. Assistants can
// moderate chat; everything else needs the admin role.
type AdminHandler struct {
	store *game.Store
	admin *service.AdminService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(store *game.Store, admin *service.AdminService) *AdminHandler {
	return &AdminHandler{store: store, admin: admin}
}

// callerRole reads the authenticated caller's role from the state tree.
func (h *AdminHandler) callerRole(r *http.Request) model.Role {
	u := h.store.State().UserByID(auth.UserIDFromContext(r.Context()))
	if u == nil {
		return ""
	}
	return u.Role
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if h.callerRole(r) != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

func (h *AdminHandler) requireStaff(w http.ResponseWriter, r *http.Request) bool {
	switch h.callerRole(r) {
	case model.RoleAdmin, model.RoleAssistant:
		return true
	}
	writeError(w, http.StatusForbidden, "staff role required")
	return false
}

// GiftItems handles POST /api/v1/admin/users/{id}/gift.
func (h *AdminHandler) GiftItems(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req struct {
		Resources model.Resources `json:"resources,omitempty"`
		Money     int             `json:"money,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.admin.GiftItems(r.Context(), r.PathValue("id"), req.Resources, req.Money)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// RemoveItems handles POST /api/v1/admin/users/{id}/remove-items.
func (h *AdminHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req struct {
		Resources model.Resources `json:"resources,omitempty"`
		Money     int             `json:"money,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.admin.RemoveItems(r.Context(), r.PathValue("id"), req.Resources, req.Money)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SetRole handles PATCH /api/v1/admin/users/{id}/role.
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req struct {
		Role model.Role `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.admin.SetRole(r.Context(), r.PathValue("id"), req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// muteRequest carries an optional duration for mutes and timeouts.
type muteRequest struct {
	DurationMinutes int `json:"duration_minutes,omitempty"` // 0 = indefinite
}

func (m muteRequest) until() *time.Time {
	if m.DurationMinutes <= 0 {
		return nil
	}
	t := time.Now().Add(time.Duration(m.DurationMinutes) * time.Minute)
	return &t
}

// MuteUser handles POST /api/v1/admin/users/{id}/mute.
func (h *AdminHandler) MuteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireStaff(w, r) {
		return
	}
	var req muteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.admin.Mute(r.Context(), r.PathValue("id"), req.until()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "muted"})
}

// UnmuteUser handles DELETE /api/v1/admin/users/{id}/mute.
func (h *AdminHandler) UnmuteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireStaff(w, r) {
		return
	}
	if err := h.admin.Unmute(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unmuted"})
}

// TimeoutUser handles POST /api/v1/admin/users/{id}/timeout.
func (h *AdminHandler) TimeoutUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireStaff(w, r) {
		return
	}
	var req muteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.admin.Timeout(r.Context(), r.PathValue("id"), req.until()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "timed out"})
}

// ClearTimeout handles DELETE /api/v1/admin/users/{id}/timeout.
func (h *AdminHandler) ClearTimeout(w http.ResponseWriter, r *http.Request) {
	if !h.requireStaff(w, r) {
		return
	}
	if err := h.admin.ClearTimeout(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// SuspendUser handles POST /api/v1/admin/users/{id}/suspend.
func (h *AdminHandler) SuspendUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req struct {
		Suspended bool `json:"suspended"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.admin.Suspend(r.Context(), r.PathValue("id"), req.Suspended); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"suspended": req.Suspended})
}

// RemoveUser handles DELETE /api/v1/admin/users/{id}.
func (h *AdminHandler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	if err := h.admin.RemoveUser(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// UpdateSettings handles PUT /api/v1/admin/settings.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var settings model.GameSettings
	if err := decodeJSON(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.admin.UpdateSettings(r.Context(), settings); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// SetMarketPrices handles PATCH /api/v1/admin/market/prices.
func (h *AdminHandler) SetMarketPrices(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req struct {
		Prices map[model.Resource]int `json:"prices"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.admin.SetMarketPrices(r.Context(), req.Prices); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.State().Settings.MarketPrices)
}

// CreateGameEvent handles POST /api/v1/admin/events.
func (h *AdminHandler) CreateGameEvent(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req struct {
		Title          string                 `json:"title"`
		Description    string                 `json:"description,omitempty"`
		PriceModifiers map[model.Resource]int `json:"price_modifiers,omitempty"`
		ExpiresAt      time.Time              `json:"expires_at"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	event, err := h.admin.CreateGameEvent(r.Context(), req.Title, req.Description, req.PriceModifiers, req.ExpiresAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}
