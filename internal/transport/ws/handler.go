package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"jeopardy/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.GameHub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.GameHub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Displays and phones are served from other origins
				return true
			},
		},
		logger: logger.With().Str("component", "ws").Logger(),
	}
}

// ServeHTTP upgrades the request. The connection joins a game with its first
// message.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(conn, h.hub, h.logger)
	h.logger.Debug().Str("connection_id", client.ID()).Str("remote_addr", r.RemoteAddr).Msg("websocket connected")

	client.Run()
}
