// Package message implements the message stream: append, delivery
// status sweeps, read acknowledgements and sender-side soft delete.
package message

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/internal/dao/mysql"
	"github.com/Avatara12345/Chat-Application/internal/dto/request"
	"github.com/Avatara12345/Chat-Application/internal/dto/respond"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/internal/service/chat"
	"github.com/Avatara12345/Chat-Application/internal/service/delivery"
	"github.com/Avatara12345/Chat-Application/pkg/chatkey"
	"github.com/Avatara12345/Chat-Application/pkg/constants"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
	"github.com/Avatara12345/Chat-Application/pkg/util/snowflake"
)

// Service owns message mutations. It publishes hub events after every
// successful write; event delivery failures never fail the mutation.
type Service struct {
	repos  *mysql.Repositories
	broker chat.Broker
	typing chat.TypingSink
}

// NewService builds the message service.
func NewService(repos *mysql.Repositories, broker chat.Broker, typing chat.TypingSink) *Service {
	return &Service{repos: repos, broker: broker, typing: typing}
}

// SendMessage appends to the session stream. The message starts in
// sent; an online receiver's hub flips it to delivered. Sending also
// ends the sender's typing burst.
func (s *Service) SendMessage(ctx context.Context, senderId string, req request.SendMessageRequest) (*respond.MessageRespond, error) {
	if strings.TrimSpace(req.Content) == "" && req.Attachment == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "message has no content")
	}
	if err := validateAttachment(req.Attachment, req.AttachmentType); err != nil {
		return nil, err
	}
	if _, err := s.repos.Session.FindByUuid(req.SessionId); err != nil {
		return nil, err
	}
	receiverId, ok := chatkey.Other(req.SessionId, senderId)
	if !ok {
		return nil, errorx.ErrForbidden
	}

	msg := &model.Message{
		Uuid:           snowflake.GenerateID(),
		SessionId:      req.SessionId,
		SenderId:       senderId,
		ReceiverId:     receiverId,
		Content:        strings.TrimSpace(req.Content),
		Attachment:     req.Attachment,
		AttachmentType: req.AttachmentType,
		Status:         int8(delivery.StatusSent),
	}
	err := s.repos.Transaction(func(tx *mysql.Repositories) error {
		if err := tx.Message.Create(msg); err != nil {
			return err
		}
		return tx.Session.TouchLastMessageAt(req.SessionId, time.Now())
	})
	if err != nil {
		return nil, err
	}

	s.typing.Stop(ctx, senderId, req.SessionId)

	rsp := respond.BuildMessageRespond(msg)
	s.publish(ctx, chat.Event{
		Type:      chat.EventMessageNew,
		SessionId: req.SessionId,
		Message:   &rsp,
		Targets:   []string{receiverId},
	})
	return &rsp, nil
}

// GetSessionMessages returns the full stream in creation order. The
// caller must be a participant. Listing makes pending messages visible,
// so any of the caller's messages still in sent flip to delivered and
// the sender is notified. This is how a receiver who was offline at
// send time produces the delivered transition.
func (s *Service) GetSessionMessages(ctx context.Context, userId, sessionId string) ([]respond.MessageRespond, error) {
	peerId, ok := chatkey.Other(sessionId, userId)
	if !ok {
		return nil, errorx.ErrForbidden
	}
	messages, err := s.repos.Message.FindBySessionId(sessionId)
	if err != nil {
		return nil, err
	}

	pending := false
	for i := range messages {
		if messages[i].ReceiverId == userId && messages[i].Status == int8(delivery.StatusSent) {
			pending = true
			messages[i].Status = int8(delivery.StatusDelivered)
		}
	}
	if pending {
		if err := s.repos.Message.MarkDelivered(sessionId, userId); err != nil {
			return nil, err
		}
		s.publish(ctx, chat.Event{
			Type:      chat.EventMessageStatus,
			SessionId: sessionId,
			Status:    "delivered",
			Targets:   []string{peerId},
		})
	}

	rsp := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		rsp = append(rsp, respond.BuildMessageRespond(&messages[i]))
	}
	return rsp, nil
}

// MarkSessionDelivered sweeps the user's pending messages in the
// session from sent to delivered. Implements chat.DeliveryMarker.
func (s *Service) MarkSessionDelivered(ctx context.Context, userId, sessionId string) error {
	if _, ok := chatkey.Other(sessionId, userId); !ok {
		return errorx.ErrForbidden
	}
	return s.repos.Message.MarkDelivered(sessionId, userId)
}

// MarkSessionRead sweeps the user's unread messages in the session to
// read, stamping the seen time. Implements chat.DeliveryMarker.
func (s *Service) MarkSessionRead(ctx context.Context, userId, sessionId string) error {
	if _, ok := chatkey.Other(sessionId, userId); !ok {
		return errorx.ErrForbidden
	}
	return s.repos.Message.MarkRead(sessionId, userId, time.Now())
}

// ReadSession is the REST form of the read acknowledgement: it sweeps
// and notifies the peer.
func (s *Service) ReadSession(ctx context.Context, userId, sessionId string) error {
	if err := s.MarkSessionRead(ctx, userId, sessionId); err != nil {
		return err
	}
	peerId, _ := chatkey.Other(sessionId, userId)
	s.publish(ctx, chat.Event{
		Type:      chat.EventMessageStatus,
		SessionId: sessionId,
		Status:    "read",
		Targets:   []string{peerId},
	})
	return nil
}

// AdvanceMessageStatus moves one message forward in the delivery
// state machine on behalf of actor. Only the receiver may advance;
// re-requesting a state that already holds succeeds without a write.
func (s *Service) AdvanceMessageStatus(ctx context.Context, actor string, req request.MessageStatusRequest) (*respond.MessageRespond, error) {
	uuid, err := strconv.ParseInt(req.MessageId, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "malformed message id")
	}
	target, ok := delivery.ParseStatus(req.Status)
	if !ok {
		return nil, errorx.New(errorx.CodeInvalidParam, "unknown status")
	}
	msg, err := s.repos.Message.FindByUuid(uuid)
	if err != nil {
		return nil, err
	}

	err = delivery.CheckAdvance(msg.SenderId, msg.ReceiverId, actor,
		delivery.Status(msg.Status), target)
	if errors.Is(err, delivery.ErrNoop) {
		rsp := respond.BuildMessageRespond(msg)
		return &rsp, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.repos.Message.AdvanceStatus(uuid, int8(target), now); err != nil {
		return nil, err
	}
	msg.Status = int8(target)
	if target == delivery.StatusRead {
		msg.ReadAt.Time = now
		msg.ReadAt.Valid = true
	}

	rsp := respond.BuildMessageRespond(msg)
	s.publish(ctx, chat.Event{
		Type:      chat.EventMessageStatus,
		SessionId: msg.SessionId,
		Status:    target.String(),
		Message:   &rsp,
		Targets:   []string{msg.SenderId},
	})
	return &rsp, nil
}

// DeleteMessage soft-deletes one message. Only the sender may delete;
// the row survives so a racing read transition still lands.
func (s *Service) DeleteMessage(ctx context.Context, userId, messageId string) (*respond.MessageRespond, error) {
	uuid, err := strconv.ParseInt(messageId, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "malformed message id")
	}
	msg, err := s.repos.Message.FindByUuid(uuid)
	if err != nil {
		return nil, err
	}
	if err := delivery.CheckDelete(msg.SenderId, userId); err != nil {
		return nil, err
	}
	if !msg.Deleted {
		if err := s.repos.Message.SoftDelete(uuid); err != nil {
			return nil, err
		}
		msg.Deleted = true
	}

	rsp := respond.BuildMessageRespond(msg)
	s.publish(ctx, chat.Event{
		Type:      chat.EventMessageStatus,
		SessionId: msg.SessionId,
		Status:    "deleted",
		Message:   &rsp,
		Targets:   []string{msg.SenderId, msg.ReceiverId},
	})
	return &rsp, nil
}

func (s *Service) publish(ctx context.Context, evt chat.Event) {
	if err := s.broker.Publish(ctx, evt); err != nil {
		zap.L().Error("event publish failed",
			zap.String("type", string(evt.Type)),
			zap.String("session_id", evt.SessionId), zap.Error(err))
	}
}

// validateAttachment enforces the data URI form and the size cap on
// the encoded payload.
func validateAttachment(attachment, attachmentType string) error {
	if attachment == "" {
		return nil
	}
	if !strings.HasPrefix(attachment, "data:") {
		return errorx.New(errorx.CodeInvalidParam, "attachment must be a data URI")
	}
	if len(attachment) > constants.ATTACHMENT_MAX_BYTES {
		return errorx.New(errorx.CodeInvalidParam, "attachment too large")
	}
	if attachmentType == "" {
		return errorx.New(errorx.CodeInvalidParam, "attachment type missing")
	}
	return nil
}
