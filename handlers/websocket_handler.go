package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/lanoel/live"
	"github.com/Dosada05/lanoel/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	hub         *live.Hub
	leaderboard services.LeaderboardService
	logger      *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, leaderboard services.LeaderboardService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// ServeWs subscribes the connection to leaderboard and vote updates. The
// first message is a snapshot of both.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	overview, err := h.leaderboard.Overview(r.Context())
	if err != nil {
		serverErrorResponse(w, r, h.logger, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}
	client.Send(live.Message{Type: live.MessageSnapshot, Payload: overview})

	go client.WritePump()
	go client.ReadPump()
}
