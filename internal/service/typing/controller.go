// Package typing debounces raw keystroke notifications into at most
// one "typing" flag write per burst, with an automatic clear once the
// sender goes quiet.
package typing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/internal/dao/redis"
	"github.com/Avatara12345/Chat-Application/internal/service/chat"
	"github.com/Avatara12345/Chat-Application/pkg/chatkey"
	"github.com/Avatara12345/Chat-Application/pkg/constants"
)

// timerHandle abstracts time.Timer so tests can drive expiry by hand.
type timerHandle interface {
	Stop() bool
	Reset(d time.Duration) bool
}

type timerFactory func(d time.Duration, f func()) timerHandle

func realTimer(d time.Duration, f func()) timerHandle {
	return time.AfterFunc(d, f)
}

// Controller tracks one burst per (session, user) pair. The first
// input event of a burst writes the flag and notifies the peer; later
// events only push the expiry timer back. Sending a message or going
// quiet ends the burst.
type Controller struct {
	store    redis.TypingStore
	broker   chat.Broker
	debounce time.Duration
	newTimer timerFactory

	mu     sync.Mutex
	bursts map[string]timerHandle
}

// NewController wires the debouncer to the typing store and the event
// broker.
func NewController(store redis.TypingStore, broker chat.Broker) *Controller {
	return &Controller{
		store:    store,
		broker:   broker,
		debounce: constants.TYPING_DEBOUNCE,
		newTimer: realTimer,
		bursts:   make(map[string]timerHandle),
	}
}

func burstKey(sessionId, userId string) string {
	return sessionId + "|" + userId
}

// Input registers a keystroke. Implements chat.TypingSink.
func (c *Controller) Input(ctx context.Context, userId, sessionId string) {
	key := burstKey(sessionId, userId)

	c.mu.Lock()
	if t, ok := c.bursts[key]; ok {
		t.Reset(c.debounce)
		c.mu.Unlock()
		return
	}
	c.bursts[key] = c.newTimer(c.debounce, func() {
		c.Stop(context.Background(), userId, sessionId)
	})
	c.mu.Unlock()

	c.setFlag(ctx, userId, sessionId, true)
}

// Stop ends the burst, clearing the flag if one was active. Called on
// timer expiry, on explicit stop frames and when a message is sent.
// Implements chat.TypingSink.
func (c *Controller) Stop(ctx context.Context, userId, sessionId string) {
	key := burstKey(sessionId, userId)

	c.mu.Lock()
	t, ok := c.bursts[key]
	if ok {
		t.Stop()
		delete(c.bursts, key)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	c.setFlag(ctx, userId, sessionId, false)
}

func (c *Controller) setFlag(ctx context.Context, userId, sessionId string, typing bool) {
	peer, ok := chatkey.Other(sessionId, userId)
	if !ok {
		zap.L().Warn("typing event for foreign session",
			zap.String("session_id", sessionId),
			zap.String("user_id", userId))
		return
	}
	if err := c.store.SetTyping(ctx, sessionId, userId, typing); err != nil {
		zap.L().Error("typing flag write failed",
			zap.String("session_id", sessionId),
			zap.String("user_id", userId), zap.Error(err))
	}
	if err := c.broker.Publish(ctx, chat.Event{
		Type:      chat.EventTyping,
		SessionId: sessionId,
		UserId:    userId,
		Typing:    typing,
		Targets:   []string{peer},
	}); err != nil {
		zap.L().Error("typing event publish failed",
			zap.String("session_id", sessionId), zap.Error(err))
	}
}
