package handler

import (
	"github.com/clawlink/clawlink/internal/ws"
	"github.com/gin-gonic/gin"
)

// WSHandler handles the WebSocket upgrade endpoint.
type WSHandler struct {
	manager *ws.ConnectionManager
}

func NewWSHandler(manager *ws.ConnectionManager) *WSHandler {
	return &WSHandler{manager: manager}
}

// Connect handles GET /ws — the realtime event surface handshake.
func (h *WSHandler) Connect(c *gin.Context) {
	h.manager.Handshake(c)
}
