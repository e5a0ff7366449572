package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/pkg/constants"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// Inbound frames are tiny control messages, not message bodies.
	maxFrameSize = 4 << 10
)

// UserConn is one authenticated websocket client. Outbound frames go
// through SendTo so the hub never blocks on a slow socket; inbound
// frames are typing events and read acks handled by the hub.
type UserConn struct {
	Uuid   string
	Conn   *websocket.Conn
	SendTo chan []byte

	hub *Hub
}

// NewUserConn registers the connection with the hub and starts both
// pumps.
func NewUserConn(hub *Hub, uuid string, wsConn *websocket.Conn) *UserConn {
	uc := &UserConn{
		Uuid:   uuid,
		Conn:   wsConn,
		SendTo: make(chan []byte, constants.CHANNEL_SIZE),
		hub:    hub,
	}
	hub.Login <- uc
	go uc.readPump()
	go uc.writePump()
	return uc
}

// Send queues an outbound frame, dropping it if the client cannot keep
// up. Droppable: the client resyncs from the REST endpoints on demand.
func (uc *UserConn) Send(data []byte) {
	select {
	case uc.SendTo <- data:
	default:
		zap.L().Warn("client send buffer full, dropping frame",
			zap.String("user_id", uc.Uuid))
	}
}

func (uc *UserConn) readPump() {
	defer func() {
		uc.hub.Logout <- uc
	}()
	uc.Conn.SetReadLimit(maxFrameSize)
	_ = uc.Conn.SetReadDeadline(time.Now().Add(pongWait))
	uc.Conn.SetPongHandler(func(string) error {
		return uc.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := uc.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("websocket read failed",
					zap.String("user_id", uc.Uuid), zap.Error(err))
			}
			return
		}
		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			zap.L().Warn("bad client frame",
				zap.String("user_id", uc.Uuid), zap.Error(err))
			continue
		}
		uc.hub.handleClientFrame(uc, frame)
	}
}

func (uc *UserConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = uc.Conn.Close()
	}()
	for {
		select {
		case data, ok := <-uc.SendTo:
			_ = uc.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = uc.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := uc.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = uc.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := uc.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
