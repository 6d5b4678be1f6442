package handler

import (
	"net/http"
	"time"

	"github.com/efreeman/world-war/api/internal/auth"
	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/internal/service"
)

// MarketHandler handles the trade market endpoints.
type MarketHandler struct {
	store  *game.Store
	market *service.MarketService
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(store *game.Store, market *service.MarketService) *MarketHandler {
	return &MarketHandler{store: store, market: market}
}

// ListTrades handles GET /api/v1/trades.
func (h *MarketHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	st := h.store.State()
	if st.TradeProposals == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, st.TradeProposals)
}

// CreateTrade handles POST /api/v1/trades.
func (h *MarketHandler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		Type     model.TradeType `json:"type"`
		Resource model.Resource  `json:"resource"`
		Amount   int             `json:"amount"`
		Price    int             `json:"price"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trade, err := h.market.CreateTrade(r.Context(), userID, req.Type, req.Resource, req.Amount, req.Price)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trade)
}

// AcceptTrade handles POST /api/v1/trades/{id}/accept.
func (h *MarketHandler) AcceptTrade(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	trade, err := h.market.AcceptTrade(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

// CancelTrade handles DELETE /api/v1/trades/{id}.
func (h *MarketHandler) CancelTrade(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	if err := h.market.CancelTrade(r.Context(), r.PathValue("id"), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// CreateCounterOffer handles POST /api/v1/trades/{id}/counter.
func (h *MarketHandler) CreateCounterOffer(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		Amount int `json:"amount"`
		Price  int `json:"price"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trade, err := h.market.CreateCounterOffer(r.Context(), r.PathValue("id"), userID, req.Amount, req.Price)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trade)
}

// AcceptCounterOffer handles POST /api/v1/trades/{id}/counter/{offerId}/accept.
// Only the original proposer may accept a counter.
func (h *MarketHandler) AcceptCounterOffer(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	st := h.store.State()
	ti := st.TradeIndex(r.PathValue("id"))
	if ti < 0 {
		writeError(w, http.StatusNotFound, "proposal not found")
		return
	}
	if st.TradeProposals[ti].ProposerID != userID {
		writeError(w, http.StatusForbidden, "only the proposer can accept a counter-offer")
		return
	}

	trade, err := h.market.AcceptCounterOffer(r.Context(), r.PathValue("id"), r.PathValue("offerId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

// SellToRobot handles POST /api/v1/market/robot-sell.
func (h *MarketHandler) SellToRobot(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		Resource model.Resource `json:"resource"`
		Amount   int            `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.market.SellToRobot(r.Context(), userID, req.Resource, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// MarketPrices handles GET /api/v1/market/prices. Prices reflect any active
// game event modifiers on top of the configured base table.
func (h *MarketHandler) MarketPrices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.State().EffectivePrices(time.Now()))
}
