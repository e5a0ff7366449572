package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/internal/service/chat"
	"github.com/Avatara12345/Chat-Application/pkg/util/jwt"
)

// Browsers cannot set headers on websocket dials, so the access token
// arrives as a query parameter instead.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WsHandler upgrades authenticated clients onto the hub.
type WsHandler struct {
	hub *chat.Hub
}

func NewWsHandler(hub *chat.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

// Connect GET /api/ws?token=<access token>
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	claims, err := jwt.ParseToken(token)
	if err != nil || claims.Subject != "access_token" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed",
			zap.String("user_id", claims.UserID), zap.Error(err))
		return
	}
	chat.NewUserConn(h.hub, claims.UserID, wsConn)
}
