package handler

import (
	"net/http"

	"github.com/efreeman/world-war/api/internal/auth"
	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/internal/service"
)

// RelationsHandler handles support requests, peace proposals, and alliances.
type RelationsHandler struct {
	store     *game.Store
	relations *service.RelationsService
}

// NewRelationsHandler creates a RelationsHandler.
func NewRelationsHandler(store *game.Store, relations *service.RelationsService) *RelationsHandler {
	return &RelationsHandler{store: store, relations: relations}
}

// RequestSupport handles POST /api/v1/support.
func (h *RelationsHandler) RequestSupport(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		TargetID string         `json:"target_id"`
		Resource model.Resource `json:"resource,omitempty"`
		Amount   int            `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.relations.RequestSupport(r.Context(), userID, req.TargetID, req.Resource, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

// RespondSupport handles POST /api/v1/support/{id}/respond. Only the target
// may answer.
func (h *RelationsHandler) RespondSupport(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	requestID := r.PathValue("id")

	if req := findSupport(h.store.State(), requestID); req == nil {
		writeError(w, http.StatusNotFound, "request not found")
		return
	} else if req.TargetID != userID {
		writeError(w, http.StatusForbidden, "only the target can respond")
		return
	}

	var body struct {
		Accept bool `json:"accept"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.relations.RespondSupport(r.Context(), requestID, body.Accept)
	if err != nil {
		// An accept the target can no longer cover is recorded as a
		// rejection; surface both the outcome and the reason.
		if request != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"request": request, "error": err.Error(),
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

// ProposePeace handles POST /api/v1/peace.
func (h *RelationsHandler) ProposePeace(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		TargetID      string          `json:"target_id"`
		Type          model.PeaceType `json:"type"`
		DurationHours int             `json:"duration_hours,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proposal, err := h.relations.ProposePeace(r.Context(), userID, req.TargetID, req.Type, req.DurationHours)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, proposal)
}

// RespondPeace handles POST /api/v1/peace/{id}/respond. Only the target may
// answer.
func (h *RelationsHandler) RespondPeace(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	proposalID := r.PathValue("id")

	if prop := findPeace(h.store.State(), proposalID); prop == nil {
		writeError(w, http.StatusNotFound, "proposal not found")
		return
	} else if prop.TargetID != userID {
		writeError(w, http.StatusForbidden, "only the target can respond")
		return
	}

	var body struct {
		Accept bool `json:"accept"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proposal, err := h.relations.RespondPeace(r.Context(), proposalID, body.Accept)
	if err != nil {
		if proposal != nil {
			// The war vanished before the answer; the proposal is closed
			// as rejected.
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"proposal": proposal, "error": err.Error(),
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposal)
}

// ListAlliances handles GET /api/v1/alliances.
func (h *RelationsHandler) ListAlliances(w http.ResponseWriter, r *http.Request) {
	st := h.store.State()
	if st.Alliances == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, st.Alliances)
}

// InviteToAlliance handles POST /api/v1/alliances/invite.
func (h *RelationsHandler) InviteToAlliance(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		TargetID     string `json:"target_id"`
		AllianceName string `json:"alliance_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AllianceName == "" {
		writeError(w, http.StatusBadRequest, "alliance_name is required")
		return
	}

	invitation, err := h.relations.InviteToAlliance(r.Context(), userID, req.TargetID, req.AllianceName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invitation)
}

// RespondAllianceInvitation handles POST /api/v1/alliances/invitations/{id}/respond.
// Only the invited user may answer.
func (h *RelationsHandler) RespondAllianceInvitation(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	invitationID := r.PathValue("id")

	if inv := findInvitation(h.store.State(), invitationID); inv == nil {
		writeError(w, http.StatusNotFound, "invitation not found")
		return
	} else if inv.TargetID != userID {
		writeError(w, http.StatusForbidden, "only the invited user can respond")
		return
	}

	var body struct {
		Accept bool `json:"accept"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	invitation, err := h.relations.RespondAllianceInvitation(r.Context(), invitationID, body.Accept)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func findSupport(st *game.State, id string) *model.SupportRequest {
	for i := range st.SupportRequests {
		if st.SupportRequests[i].ID == id {
			return &st.SupportRequests[i]
		}
	}
	return nil
}

func findPeace(st *game.State, id string) *model.PeaceProposal {
	for i := range st.PeaceProposals {
		if st.PeaceProposals[i].ID == id {
			return &st.PeaceProposals[i]
		}
	}
	return nil
}

func findInvitation(st *game.State, id string) *model.AllianceInvitation {
	for i := range st.AllianceInvitations {
		if st.AllianceInvitations[i].ID == id {
			return &st.AllianceInvitations[i]
		}
	}
	return nil
}
