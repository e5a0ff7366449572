package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avatara12345/Chat-Application/internal/dao/mysql/mysqltest"
	"github.com/Avatara12345/Chat-Application/internal/dao/redis/redistest"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/internal/service/delivery"
	"github.com/Avatara12345/Chat-Application/pkg/constants"
)

const (
	alice = "Ualice"
	bob   = "Ubob"
	carol = "Ucarol"

	aliceBob   = "Ualice_Ubob"
	aliceCarol = "Ualice_Ucarol"
)

type fixture struct {
	agg   *Aggregator
	fakes *mysqltest.Fakes
	cache *redistest.Cache
	seq   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fakes := mysqltest.NewFakes()
	cache := redistest.New()
	for _, uuid := range []string{alice, bob, carol} {
		require.NoError(t, fakes.Users.CreateUser(&model.User{
			Uuid:      uuid,
			Firstname: uuid[1:],
			Email:     uuid + "@example.com",
			Status:    model.PresenceOffline,
		}))
	}
	for _, s := range []model.Session{
		{Uuid: aliceBob, ParticipantOne: alice, ParticipantTwo: bob},
		{Uuid: aliceCarol, ParticipantOne: alice, ParticipantTwo: carol},
	} {
		s := s
		_, err := fakes.Sessions.GetOrCreate(&s)
		require.NoError(t, err)
	}
	return &fixture{agg: NewAggregator(fakes.Repos, cache), fakes: fakes, cache: cache}
}

func (f *fixture) addMessage(t *testing.T, sessionId, sender, receiver, content string, status delivery.Status) *model.Message {
	t.Helper()
	return f.add(t, &model.Message{
		SessionId:  sessionId,
		SenderId:   sender,
		ReceiverId: receiver,
		Content:    content,
		Status:     int8(status),
	})
}

func (f *fixture) add(t *testing.T, msg *model.Message) *model.Message {
	t.Helper()
	f.seq++
	msg.Uuid = f.seq
	msg.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	require.NoError(t, f.fakes.Messages.Create(msg))
	require.NoError(t, f.fakes.Sessions.TouchLastMessageAt(msg.SessionId, msg.CreatedAt))
	return msg
}

func TestGetRosterHidesEmptySessions(t *testing.T) {
	f := newFixture(t)
	f.addMessage(t, aliceBob, bob, alice, "hey", delivery.StatusSent)

	entries, err := f.agg.GetRoster(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, aliceBob, entries[0].SessionId)
	assert.Equal(t, bob, entries[0].Peer.Uuid)
}

func TestGetRosterCountsUnread(t *testing.T) {
	f := newFixture(t)
	f.addMessage(t, aliceBob, bob, alice, "one", delivery.StatusSent)
	f.addMessage(t, aliceBob, bob, alice, "two", delivery.StatusDelivered)
	f.addMessage(t, aliceBob, bob, alice, "three", delivery.StatusRead)
	f.addMessage(t, aliceBob, alice, bob, "mine", delivery.StatusSent)

	entries, err := f.agg.GetRoster(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// Only sent and delivered messages addressed to alice count.
	assert.Equal(t, int64(2), entries[0].UnreadCount)
	assert.Equal(t, "mine", entries[0].LastMessage.Text)
	assert.Equal(t, alice, entries[0].LastMessage.SenderId)
}

func TestDeletedLatestStillAnchorsEntry(t *testing.T) {
	f := newFixture(t)
	f.addMessage(t, aliceBob, bob, alice, "first", delivery.StatusRead)
	latest := f.addMessage(t, aliceBob, bob, alice, "latest", delivery.StatusRead)
	require.NoError(t, f.fakes.Messages.SoftDelete(latest.Uuid))

	entries, err := f.agg.GetRoster(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].LastMessage)
	assert.Equal(t, constants.DELETED_PLACEHOLDER, entries[0].LastMessage.Text)
}

func TestAttachmentOnlyPreview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.add(t, &model.Message{
		SessionId:      aliceBob,
		SenderId:       bob,
		ReceiverId:     alice,
		Attachment:     "data:image/png;base64,iVBORw0KGgo=",
		AttachmentType: "image/png",
	})
	entry, err := f.agg.Entry(ctx, alice, aliceBob)
	require.NoError(t, err)
	assert.Equal(t, constants.PHOTO_PREVIEW, entry.LastMessage.Text)

	f.add(t, &model.Message{
		SessionId:      aliceBob,
		SenderId:       bob,
		ReceiverId:     alice,
		Attachment:     "data:application/pdf;base64,JVBERi0=",
		AttachmentType: "application/pdf",
	})
	entry, err = f.agg.Entry(ctx, alice, aliceBob)
	require.NoError(t, err)
	assert.Equal(t, constants.FILE_PREVIEW, entry.LastMessage.Text)
}

func TestTypingFlagFromStore(t *testing.T) {
	f := newFixture(t)
	f.addMessage(t, aliceBob, bob, alice, "hey", delivery.StatusSent)
	ctx := context.Background()
	require.NoError(t, f.cache.SetTyping(ctx, aliceBob, bob, true))

	entry, err := f.agg.Entry(ctx, alice, aliceBob)
	require.NoError(t, err)
	assert.True(t, entry.Typing)

	// The flag reflects the peer, not the caller.
	entry, err = f.agg.Entry(ctx, bob, aliceBob)
	require.NoError(t, err)
	assert.False(t, entry.Typing)
}

func TestGetRosterCacheAside(t *testing.T) {
	f := newFixture(t)
	f.addMessage(t, aliceBob, bob, alice, "hey", delivery.StatusSent)
	ctx := context.Background()

	first, err := f.agg.GetRoster(ctx, alice)
	require.NoError(t, err)
	require.True(t, f.cache.Has("roster_"+alice))

	// A write that bypasses invalidation is invisible until the entry
	// is recomputed.
	f.addMessage(t, aliceBob, bob, alice, "newer", delivery.StatusSent)
	cached, err := f.agg.GetRoster(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	// Entry invalidates, so the next list is rebuilt.
	_, err = f.agg.Entry(ctx, alice, aliceBob)
	require.NoError(t, err)
	fresh, err := f.agg.GetRoster(ctx, alice)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "newer", fresh[0].LastMessage.Text)
	assert.Equal(t, int64(2), fresh[0].UnreadCount)
}

func TestInvalidate(t *testing.T) {
	f := newFixture(t)
	f.addMessage(t, aliceBob, bob, alice, "hey", delivery.StatusSent)
	ctx := context.Background()

	_, err := f.agg.GetRoster(ctx, alice)
	require.NoError(t, err)
	require.True(t, f.cache.Has("roster_"+alice))

	f.agg.Invalidate(ctx, alice, bob)
	assert.False(t, f.cache.Has("roster_"+alice))
}
