package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/isdelr/eventhub-be/internal/auth"
	ws "github.com/isdelr/eventhub-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades HTTP connections to the live event feed.
type WebSocketHandler struct {
	hub    *ws.Hub
	tokens *auth.TokenManager
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, tokens *auth.TokenManager) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request. Browsers cannot set an
// Authorization header on the upgrade request, so the token is also accepted
// as a query parameter.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		if authHeader := r.Header.Get("Authorization"); len(authHeader) > len("Bearer ") {
			tokenStr = authHeader[len("Bearer "):]
		}
	}
	if tokenStr == "" {
		respondError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	userID, err := h.tokens.Verify(tokenStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
