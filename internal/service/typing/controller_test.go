package typing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avatara12345/Chat-Application/internal/service/chat"
)

type flagWrite struct {
	sessionId string
	userId    string
	typing    bool
}

type fakeStore struct {
	mu     sync.Mutex
	writes []flagWrite
}

func (f *fakeStore) SetTyping(_ context.Context, sessionId, userId string, typing bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, flagWrite{sessionId, userId, typing})
	return nil
}

func (f *fakeStore) IsTyping(_ context.Context, sessionId, userId string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.writes) - 1; i >= 0; i-- {
		w := f.writes[i]
		if w.sessionId == sessionId && w.userId == userId {
			return w.typing, nil
		}
	}
	return false, nil
}

type fakeBroker struct {
	mu     sync.Mutex
	events []chat.Event
}

func (f *fakeBroker) Publish(_ context.Context, evt chat.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func (f *fakeBroker) Start() {}
func (f *fakeBroker) Close() {}

// fakeTimer lets the test fire or inspect expiry by hand.
type fakeTimer struct {
	expire func()
	resets int
	stops  int
}

func (t *fakeTimer) Stop() bool                 { t.stops++; return true }
func (t *fakeTimer) Reset(_ time.Duration) bool { t.resets++; return true }

func newTestController() (*Controller, *fakeStore, *fakeBroker, *[]*fakeTimer) {
	store := &fakeStore{}
	broker := &fakeBroker{}
	c := NewController(store, broker)
	timers := &[]*fakeTimer{}
	c.newTimer = func(_ time.Duration, f func()) timerHandle {
		t := &fakeTimer{expire: f}
		*timers = append(*timers, t)
		return t
	}
	return c, store, broker, timers
}

const sessionId = "Ualice_Ubob"

func TestBurstWritesTrueOnce(t *testing.T) {
	c, store, broker, timers := newTestController()
	ctx := context.Background()

	c.Input(ctx, "Ualice", sessionId)
	c.Input(ctx, "Ualice", sessionId)
	c.Input(ctx, "Ualice", sessionId)

	require.Len(t, store.writes, 1)
	assert.Equal(t, flagWrite{sessionId, "Ualice", true}, store.writes[0])

	require.Len(t, broker.events, 1)
	evt := broker.events[0]
	assert.Equal(t, chat.EventTyping, evt.Type)
	assert.True(t, evt.Typing)
	assert.Equal(t, "Ualice", evt.UserId)
	assert.Equal(t, []string{"Ubob"}, evt.Targets)

	// One timer per burst; later keystrokes only push it back.
	require.Len(t, *timers, 1)
	assert.Equal(t, 2, (*timers)[0].resets)
}

func TestQuietPeriodClearsFlag(t *testing.T) {
	c, store, broker, timers := newTestController()
	ctx := context.Background()

	c.Input(ctx, "Ualice", sessionId)
	require.Len(t, *timers, 1)

	(*timers)[0].expire()

	require.Len(t, store.writes, 2)
	assert.Equal(t, flagWrite{sessionId, "Ualice", false}, store.writes[1])

	require.Len(t, broker.events, 2)
	assert.False(t, broker.events[1].Typing)

	// The next keystroke starts a fresh burst with a fresh true write.
	c.Input(ctx, "Ualice", sessionId)
	require.Len(t, store.writes, 3)
	assert.True(t, store.writes[2].typing)
	assert.Len(t, *timers, 2)
}

func TestStopWithoutBurstIsSilent(t *testing.T) {
	c, store, broker, _ := newTestController()

	c.Stop(context.Background(), "Ualice", sessionId)

	assert.Empty(t, store.writes)
	assert.Empty(t, broker.events)
}

func TestStopEndsBurst(t *testing.T) {
	c, store, _, timers := newTestController()
	ctx := context.Background()

	c.Input(ctx, "Ualice", sessionId)
	c.Stop(ctx, "Ualice", sessionId)

	require.Len(t, store.writes, 2)
	assert.False(t, store.writes[1].typing)
	assert.Equal(t, 1, (*timers)[0].stops)

	// A second stop is idempotent.
	c.Stop(ctx, "Ualice", sessionId)
	assert.Len(t, store.writes, 2)
}

func TestBurstsIsolatedPerUserAndSession(t *testing.T) {
	c, store, _, _ := newTestController()
	ctx := context.Background()

	c.Input(ctx, "Ualice", sessionId)
	c.Input(ctx, "Ubob", sessionId)
	c.Input(ctx, "Ualice", "Ualice_Ucarol")

	require.Len(t, store.writes, 3)
	for _, w := range store.writes {
		assert.True(t, w.typing)
	}
}
