package message

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avatara12345/Chat-Application/internal/dao/mysql/mysqltest"
	"github.com/Avatara12345/Chat-Application/internal/dto/request"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/internal/service/chat"
	"github.com/Avatara12345/Chat-Application/internal/service/delivery"
	"github.com/Avatara12345/Chat-Application/pkg/constants"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
)

const (
	alice     = "Ualice"
	bob       = "Ubob"
	sessionId = "Ualice_Ubob"
)

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

type stopCall struct{ userId, sessionId string }

type fakeTypingSink struct {
	stops []stopCall
}

func (f *fakeTypingSink) Input(_ context.Context, userId, sessionId string) {}
func (f *fakeTypingSink) Stop(_ context.Context, userId, sessionId string) {
	f.stops = append(f.stops, stopCall{userId, sessionId})
}

func newTestService(t *testing.T) (*Service, *mysqltest.Fakes, *fakeBroker, *fakeTypingSink) {
	t.Helper()
	fakes := mysqltest.NewFakes()
	broker := &fakeBroker{}
	typing := &fakeTypingSink{}
	svc := NewService(fakes.Repos, broker, typing)

	_, err := fakes.Sessions.GetOrCreate(&model.Session{
		Uuid:           sessionId,
		ParticipantOne: alice,
		ParticipantTwo: bob,
	})
	require.NoError(t, err)
	return svc, fakes, broker, typing
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	svc, _, broker, _ := newTestService(t)

	_, err := svc.SendMessage(context.Background(), alice, request.SendMessageRequest{
		SessionId: sessionId,
		Content:   "   ",
	})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
	assert.Empty(t, broker.events)
}

func TestSendMessageValidatesAttachment(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId:      sessionId,
		Attachment:     "http://example.com/cat.png",
		AttachmentType: "image/png",
	})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId:  sessionId,
		Attachment: "data:image/png;base64,iVBORw0KGgo=",
	})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	oversize := "data:" + strings.Repeat("a", constants.ATTACHMENT_MAX_BYTES)
	_, err = svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId:      sessionId,
		Attachment:     oversize,
		AttachmentType: "image/png",
	})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestSendMessageRejectsOutsider(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.SendMessage(context.Background(), "Ueve", request.SendMessageRequest{
		SessionId: sessionId,
		Content:   "hi",
	})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestSendMessageAppendsAsSent(t *testing.T) {
	svc, fakes, broker, typing := newTestService(t)

	rsp, err := svc.SendMessage(context.Background(), alice, request.SendMessageRequest{
		SessionId: sessionId,
		Content:   "hello bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "sent", rsp.Status)
	assert.Equal(t, alice, rsp.SenderId)
	assert.Equal(t, bob, rsp.ReceiverId)
	assert.Equal(t, "hello bob", rsp.Content)

	// The session ordering timestamp moved.
	session, err := fakes.Sessions.FindByUuid(sessionId)
	require.NoError(t, err)
	assert.True(t, session.LastMessageAt.Valid)

	// Sending ends the sender's typing burst.
	require.Len(t, typing.stops, 1)
	assert.Equal(t, stopCall{alice, sessionId}, typing.stops[0])

	// One message.new event aimed at the receiver.
	require.Len(t, broker.events, 1)
	evt := broker.events[0]
	assert.Equal(t, chat.EventMessageNew, evt.Type)
	assert.Equal(t, []string{bob}, evt.Targets)
	require.NotNil(t, evt.Message)
	assert.Equal(t, rsp.Id, evt.Message.Id)
}

func TestMarkSessionDeliveredSweepsOnlyPending(t *testing.T) {
	svc, fakes, _, _ := newTestService(t)
	ctx := context.Background()

	send := func(sender string, content string) {
		_, err := svc.SendMessage(ctx, sender, request.SendMessageRequest{
			SessionId: sessionId, Content: content,
		})
		require.NoError(t, err)
	}
	send(alice, "one")
	send(alice, "two")
	send(bob, "reply")

	require.NoError(t, svc.MarkSessionDelivered(ctx, bob, sessionId))

	messages, err := fakes.Messages.FindBySessionId(sessionId)
	require.NoError(t, err)
	for _, m := range messages {
		if m.ReceiverId == bob {
			assert.Equal(t, int8(delivery.StatusDelivered), m.Status)
		} else {
			// Bob's own outgoing message is untouched.
			assert.Equal(t, int8(delivery.StatusSent), m.Status)
		}
	}

	// Re-running the sweep changes nothing.
	require.NoError(t, svc.MarkSessionDelivered(ctx, bob, sessionId))
	again, err := fakes.Messages.FindBySessionId(sessionId)
	require.NoError(t, err)
	assert.Equal(t, messages, again)
}

func TestReadSessionSweepsAndNotifiesPeer(t *testing.T) {
	svc, fakes, broker, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId: sessionId, Content: "unread",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReadSession(ctx, bob, sessionId))

	messages, err := fakes.Messages.FindBySessionId(sessionId)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, int8(delivery.StatusRead), messages[0].Status)
	assert.True(t, messages[0].ReadAt.Valid)

	unread, err := fakes.Messages.CountUnread(sessionId, bob)
	require.NoError(t, err)
	assert.Zero(t, unread)

	// message.new from the send, then the read notification to alice.
	require.Len(t, broker.events, 2)
	read := broker.events[1]
	assert.Equal(t, chat.EventMessageStatus, read.Type)
	assert.Equal(t, "read", read.Status)
	assert.Equal(t, []string{alice}, read.Targets)
}

func TestReadSessionRejectsOutsider(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	err := svc.ReadSession(context.Background(), "Ueve", sessionId)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestAdvanceMessageStatusReceiverOnly(t *testing.T) {
	svc, _, broker, _ := newTestService(t)
	ctx := context.Background()

	rsp, err := svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId: sessionId, Content: "advance me",
	})
	require.NoError(t, err)

	// The sender cannot advance their own message.
	_, err = svc.AdvanceMessageStatus(ctx, alice, request.MessageStatusRequest{
		MessageId: rsp.Id, Status: "delivered",
	})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	delivered, err := svc.AdvanceMessageStatus(ctx, bob, request.MessageStatusRequest{
		MessageId: rsp.Id, Status: "delivered",
	})
	require.NoError(t, err)
	assert.Equal(t, "delivered", delivered.Status)

	read, err := svc.AdvanceMessageStatus(ctx, bob, request.MessageStatusRequest{
		MessageId: rsp.Id, Status: "read",
	})
	require.NoError(t, err)
	assert.Equal(t, "read", read.Status)
	assert.NotEmpty(t, read.ReadAt)

	// The sender was notified of each advancement.
	var statuses []string
	for _, evt := range broker.events {
		if evt.Type == chat.EventMessageStatus {
			assert.Equal(t, []string{alice}, evt.Targets)
			statuses = append(statuses, evt.Status)
		}
	}
	assert.Equal(t, []string{"delivered", "read"}, statuses)
}

func TestAdvanceMessageStatusNoRegression(t *testing.T) {
	svc, fakes, _, _ := newTestService(t)
	ctx := context.Background()

	rsp, err := svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId: sessionId, Content: "read me",
	})
	require.NoError(t, err)
	require.NoError(t, svc.MarkSessionRead(ctx, bob, sessionId))

	// Asking for delivered after read succeeds without moving backward.
	still, err := svc.AdvanceMessageStatus(ctx, bob, request.MessageStatusRequest{
		MessageId: rsp.Id, Status: "delivered",
	})
	require.NoError(t, err)
	assert.Equal(t, "read", still.Status)

	uuid, err := strconv.ParseInt(rsp.Id, 10, 64)
	require.NoError(t, err)
	stored, err := fakes.Messages.FindByUuid(uuid)
	require.NoError(t, err)
	assert.Equal(t, int8(delivery.StatusRead), stored.Status)
}

func TestDeleteMessageSenderOnly(t *testing.T) {
	svc, _, broker, _ := newTestService(t)
	ctx := context.Background()

	rsp, err := svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId: sessionId, Content: "oops",
	})
	require.NoError(t, err)

	_, err = svc.DeleteMessage(ctx, bob, rsp.Id)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	deleted, err := svc.DeleteMessage(ctx, alice, rsp.Id)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	assert.Equal(t, constants.DELETED_PLACEHOLDER, deleted.Content)
	assert.Empty(t, deleted.Attachment)

	evt := broker.events[len(broker.events)-1]
	assert.Equal(t, chat.EventMessageStatus, evt.Type)
	assert.Equal(t, "deleted", evt.Status)
	assert.ElementsMatch(t, []string{alice, bob}, evt.Targets)
}

func TestDeleteMessageIdempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	rsp, err := svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId: sessionId, Content: "gone",
	})
	require.NoError(t, err)

	first, err := svc.DeleteMessage(ctx, alice, rsp.Id)
	require.NoError(t, err)
	second, err := svc.DeleteMessage(ctx, alice, rsp.Id)
	require.NoError(t, err)
	assert.Equal(t, first.Deleted, second.Deleted)
	assert.Equal(t, first.Content, second.Content)
}

func TestDeleteKeepsStatusColumn(t *testing.T) {
	svc, fakes, _, _ := newTestService(t)
	ctx := context.Background()

	rsp, err := svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId: sessionId, Content: "racing",
	})
	require.NoError(t, err)

	// A read sweep and a delete race: both effects must land.
	require.NoError(t, svc.MarkSessionRead(ctx, bob, sessionId))
	_, err = svc.DeleteMessage(ctx, alice, rsp.Id)
	require.NoError(t, err)

	uuid, err := strconv.ParseInt(rsp.Id, 10, 64)
	require.NoError(t, err)
	stored, err := fakes.Messages.FindByUuid(uuid)
	require.NoError(t, err)
	assert.True(t, stored.Deleted)
	assert.Equal(t, int8(delivery.StatusRead), stored.Status)
	assert.True(t, stored.ReadAt.Valid)
}

func TestGetSessionMessagesHidesDeletedContent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	kept, err := svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId: sessionId, Content: "kept",
	})
	require.NoError(t, err)
	gone, err := svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId:      sessionId,
		Content:        "secret",
		Attachment:     "data:image/png;base64,iVBORw0KGgo=",
		AttachmentType: "image/png",
	})
	require.NoError(t, err)
	_, err = svc.DeleteMessage(ctx, alice, gone.Id)
	require.NoError(t, err)

	messages, err := svc.GetSessionMessages(ctx, bob, sessionId)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "kept", messages[0].Content)
	assert.Equal(t, kept.Id, messages[0].Id)
	assert.Equal(t, constants.DELETED_PLACEHOLDER, messages[1].Content)
	assert.Empty(t, messages[1].Attachment)

	_, err = svc.GetSessionMessages(ctx, "Ueve", sessionId)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestGetSessionMessagesDeliversPending(t *testing.T) {
	svc, fakes, broker, _ := newTestService(t)
	ctx := context.Background()

	sent, err := svc.SendMessage(ctx, alice, request.SendMessageRequest{
		SessionId: sessionId, Content: "while you were away",
	})
	require.NoError(t, err)

	// The receiver listing the stream counts as visible.
	messages, err := svc.GetSessionMessages(ctx, bob, sessionId)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, delivery.StatusDelivered.String(), messages[0].Status)

	uuid, err := strconv.ParseInt(sent.Id, 10, 64)
	require.NoError(t, err)
	stored, err := fakes.Messages.FindByUuid(uuid)
	require.NoError(t, err)
	assert.Equal(t, int8(delivery.StatusDelivered), stored.Status)

	evt := broker.events[len(broker.events)-1]
	assert.Equal(t, chat.EventMessageStatus, evt.Type)
	assert.Equal(t, "delivered", evt.Status)
	assert.Equal(t, []string{alice}, evt.Targets)

	// Nothing pending on a second list: no extra event.
	before := len(broker.events)
	_, err = svc.GetSessionMessages(ctx, bob, sessionId)
	require.NoError(t, err)
	assert.Len(t, broker.events, before)

	// The sender listing never advances their own outgoing messages.
	sent2, err := svc.SendMessage(ctx, bob, request.SendMessageRequest{
		SessionId: sessionId, Content: "back now",
	})
	require.NoError(t, err)
	fromAlice, err := svc.GetSessionMessages(ctx, bob, sessionId)
	require.NoError(t, err)
	require.Len(t, fromAlice, 2)
	assert.Equal(t, sent2.Id, fromAlice[1].Id)
	assert.Equal(t, delivery.StatusSent.String(), fromAlice[1].Status)
}
