package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"peerrent-backend/internal/logger"
	"peerrent-backend/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth happens in the middleware; the origin check is left to
	// the deployment's reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsHandler struct {
	hub *realtime.Hub
}

func newWSHandler(hub *realtime.Hub) *wsHandler {
	return &wsHandler{hub: hub}
}

func (h *wsHandler) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.ErrorContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := realtime.NewClient(h.hub, conn, userID(r))
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
