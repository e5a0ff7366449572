package chat

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/internal/dto/respond"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/pkg/chatkey"
	"github.com/Avatara12345/Chat-Application/pkg/constants"
)

// DeliveryMarker advances delivery statuses in the store of record.
// Implemented by the message service; declared here so the hub does
// not import it.
type DeliveryMarker interface {
	// MarkSessionDelivered flips every sent message addressed to userId
	// in the session to delivered. Returns delivery.ErrNoop-wrapped
	// success when nothing was pending.
	MarkSessionDelivered(ctx context.Context, userId, sessionId string) error
	// MarkSessionRead flips every unread message addressed to userId in
	// the session to read and stamps the seen time.
	MarkSessionRead(ctx context.Context, userId, sessionId string) error
}

// TypingSink receives raw typing frames from clients. Implemented by
// the typing controller, which owns debouncing.
type TypingSink interface {
	Input(ctx context.Context, userId, sessionId string)
	Stop(ctx context.Context, userId, sessionId string)
}

// RosterProvider recomputes one roster entry after a mutation.
type RosterProvider interface {
	Entry(ctx context.Context, userId, sessionId string) (*respond.RosterEntryRespond, error)
}

// PresenceWriter persists online/offline transitions.
type PresenceWriter interface {
	SetPresence(ctx context.Context, userId, status string) error
}

// Hub owns the registry of live connections and the event loop. All
// registry mutation happens on the loop goroutine; Clients is a
// sync.Map only so HTTP handlers can do lock-free online checks.
type Hub struct {
	Clients  sync.Map // user uuid -> *UserConn
	Login    chan *UserConn
	Logout   chan *UserConn
	Transmit chan Event

	broker   Broker
	delivery DeliveryMarker
	typing   TypingSink
	roster   RosterProvider
	presence PresenceWriter

	done chan struct{}
	once sync.Once
}

// NewHub builds an unstarted hub. Wire must run before Start: the
// broker needs the hub and the message service needs the broker, so
// collaborators arrive in a second phase.
func NewHub() *Hub {
	return &Hub{
		Login:    make(chan *UserConn, constants.CHANNEL_SIZE),
		Logout:   make(chan *UserConn, constants.CHANNEL_SIZE),
		Transmit: make(chan Event, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
	}
}

// Wire attaches the hub's collaborators.
func (h *Hub) Wire(broker Broker, delivery DeliveryMarker, typing TypingSink, roster RosterProvider, presence PresenceWriter) {
	h.broker = broker
	h.delivery = delivery
	h.typing = typing
	h.roster = roster
	h.presence = presence
}

// IsOnline reports whether the user has a live connection on this node.
func (h *Hub) IsOnline(userId string) bool {
	_, ok := h.Clients.Load(userId)
	return ok
}

// Start runs the event loop until Close.
func (h *Hub) Start() {
	go h.run()
}

// Close stops the loop and drops every connection.
func (h *Hub) Close() {
	h.once.Do(func() { close(h.done) })
}

func (h *Hub) run() {
	for {
		select {
		case uc := <-h.Login:
			h.handleLogin(uc)
		case uc := <-h.Logout:
			h.handleLogout(uc)
		case evt := <-h.Transmit:
			h.dispatch(evt)
		case <-h.done:
			h.Clients.Range(func(_, v interface{}) bool {
				close(v.(*UserConn).SendTo)
				return true
			})
			return
		}
	}
}

func (h *Hub) handleLogin(uc *UserConn) {
	// A second login for the same user replaces the old socket.
	if prev, loaded := h.Clients.Load(uc.Uuid); loaded {
		close(prev.(*UserConn).SendTo)
	}
	h.Clients.Store(uc.Uuid, uc)
	ctx := context.Background()
	if err := h.presence.SetPresence(ctx, uc.Uuid, model.PresenceOnline); err != nil {
		zap.L().Error("presence online update failed",
			zap.String("user_id", uc.Uuid), zap.Error(err))
	}
	h.publish(ctx, Event{
		Type:   EventPresence,
		UserId: uc.Uuid,
		Status: model.PresenceOnline,
	})
	zap.L().Info("client connected", zap.String("user_id", uc.Uuid))
}

func (h *Hub) handleLogout(uc *UserConn) {
	cur, ok := h.Clients.Load(uc.Uuid)
	if !ok || cur.(*UserConn) != uc {
		// Already replaced by a newer socket; nothing to do.
		return
	}
	h.Clients.Delete(uc.Uuid)
	close(uc.SendTo)
	ctx := context.Background()
	if err := h.presence.SetPresence(ctx, uc.Uuid, model.PresenceOffline); err != nil {
		zap.L().Error("presence offline update failed",
			zap.String("user_id", uc.Uuid), zap.Error(err))
	}
	h.publish(ctx, Event{
		Type:   EventPresence,
		UserId: uc.Uuid,
		Status: model.PresenceOffline,
	})
	zap.L().Info("client disconnected", zap.String("user_id", uc.Uuid))
}

func (h *Hub) dispatch(evt Event) {
	switch evt.Type {
	case EventMessageNew:
		h.deliverNewMessage(evt)
	case EventMessageStatus:
		h.send(evt, evt.Targets)
		if a, b, ok := chatkey.Participants(evt.SessionId); ok {
			h.pushRoster(context.Background(), evt.SessionId, a, b)
		}
	case EventPresence:
		h.send(evt, nil) // broadcast
	default:
		h.send(evt, evt.Targets)
	}
}

// deliverNewMessage pushes the message to its receiver and, if the
// receiver is live, immediately flips the session's sent messages to
// delivered and notifies the sender.
func (h *Hub) deliverNewMessage(evt Event) {
	h.send(evt, evt.Targets)
	if evt.Message == nil {
		return
	}
	ctx := context.Background()
	receiver := evt.Message.ReceiverId
	sender := evt.Message.SenderId
	if h.IsOnline(receiver) {
		if err := h.delivery.MarkSessionDelivered(ctx, receiver, evt.SessionId); err == nil {
			// The status event's dispatch refreshes both rosters.
			h.publish(ctx, Event{
				Type:      EventMessageStatus,
				SessionId: evt.SessionId,
				Status:    "delivered",
				Targets:   []string{sender},
			})
			return
		}
	}
	h.pushRoster(ctx, evt.SessionId, sender, receiver)
}

// handleClientFrame services typing and read frames coming up the
// socket. Runs on the connection's read goroutine.
func (h *Hub) handleClientFrame(uc *UserConn, frame clientFrame) {
	ctx := context.Background()
	switch frame.Type {
	case "typing":
		if frame.Typing {
			h.typing.Input(ctx, uc.Uuid, frame.SessionId)
		} else {
			h.typing.Stop(ctx, uc.Uuid, frame.SessionId)
		}
	case "read":
		if err := h.delivery.MarkSessionRead(ctx, uc.Uuid, frame.SessionId); err != nil {
			return
		}
		peer, ok := chatkey.Other(frame.SessionId, uc.Uuid)
		if !ok {
			zap.L().Warn("read ack for foreign session",
				zap.String("user_id", uc.Uuid),
				zap.String("session_id", frame.SessionId))
			return
		}
		h.publish(ctx, Event{
			Type:      EventMessageStatus,
			SessionId: frame.SessionId,
			Status:    "read",
			Targets:   []string{peer},
		})
	default:
		zap.L().Warn("unknown client frame type",
			zap.String("user_id", uc.Uuid), zap.String("type", frame.Type))
	}
}

// pushRoster recomputes and publishes the roster entry for each
// participant that may be connected somewhere.
func (h *Hub) pushRoster(ctx context.Context, sessionId string, userIds ...string) {
	for _, uid := range userIds {
		entry, err := h.roster.Entry(ctx, uid, sessionId)
		if err != nil {
			zap.L().Error("roster entry rebuild failed",
				zap.String("user_id", uid),
				zap.String("session_id", sessionId), zap.Error(err))
			continue
		}
		h.publish(ctx, Event{
			Type:      EventRoster,
			SessionId: sessionId,
			UserId:    uid,
			Roster:    entry,
			Targets:   []string{uid},
		})
	}
}

func (h *Hub) publish(ctx context.Context, evt Event) {
	if h.broker == nil {
		return
	}
	if err := h.broker.Publish(ctx, evt); err != nil {
		zap.L().Error("event publish failed",
			zap.String("type", string(evt.Type)), zap.Error(err))
	}
}

// send writes the event to the named targets, or to everyone when
// targets is empty. Slow clients never block the loop; Send drops.
func (h *Hub) send(evt Event, targets []string) {
	data, err := evt.Encode()
	if err != nil {
		zap.L().Error("event encode failed", zap.Error(err))
		return
	}
	if len(targets) == 0 {
		h.Clients.Range(func(_, v interface{}) bool {
			v.(*UserConn).Send(data)
			return true
		})
		return
	}
	for _, uid := range targets {
		if v, ok := h.Clients.Load(uid); ok {
			v.(*UserConn).Send(data)
		}
	}
}
