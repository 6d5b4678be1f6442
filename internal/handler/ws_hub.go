package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types sent over WebSocket.
const (
	EventWarDeclared     = "war_declared"
	EventWarReinforced   = "war_reinforced"
	EventWarRetreated    = "war_retreated"
	EventBattleResolved  = "battle_resolved"
	EventPeaceAccepted   = "peace_accepted"
	EventTradeCreated    = "trade_created"
	EventTradeAccepted   = "trade_accepted"
	EventTradeCancelled  = "trade_cancelled"
	EventCounterOffer    = "counter_offer"
	EventChatMessage     = "chat_message"
	EventCountrySelected = "country_selected"
	EventAllianceUpdated = "alliance_updated"
	EventGameEvent       = "game_event"
	EventMarketPrices    = "market_prices"
	EventSettingsUpdated = "settings_updated"
	EventUserRemoved     = "user_removed"
)

// WSEvent is the envelope for all WebSocket messages.
type WSEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WSConn wraps a WebSocket connection with its user and send queue.
type WSConn struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub manages WebSocket connections. The world is a single shared channel:
// every event goes to every connection, plus targeted per-user delivery.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{connections: make(map[*WSConn]bool)}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; !ok {
		return
	}
	delete(h.connections, c)
	close(c.send)
}

// BroadcastEvent implements service.Broadcaster: sends an event to every
// connected client.
func (h *Hub) BroadcastEvent(eventType string, data any) {
	payload, err := json.Marshal(WSEvent{Type: eventType, Data: data})
	if err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.connections {
		select {
		case c.send <- payload:
		default:
			log.Warn().Str("userId", c.userID).Str("type", eventType).
				Msg("Dropping WebSocket message, buffer full")
		}
	}
}

// BroadcastToUser sends an event to a specific user across all their connections.
func (h *Hub) BroadcastToUser(userID string, event WSEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.connections {
		if c.userID == userID {
			select {
			case c.send <- payload:
			default:
			}
		}
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}
