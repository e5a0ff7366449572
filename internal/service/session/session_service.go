// Package session opens two-party conversations keyed by the
// deterministic chat key.
package session

import (
	"context"

	"github.com/Avatara12345/Chat-Application/internal/dao/mysql"
	"github.com/Avatara12345/Chat-Application/internal/dto/respond"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/pkg/chatkey"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
)

// Service opens sessions and guards participant access.
type Service struct {
	repos *mysql.Repositories
}

// NewService builds the session service.
func NewService(repos *mysql.Repositories) *Service {
	return &Service{repos: repos}
}

// OpenSession returns the session between the caller and peer,
// creating it when absent. Both participants can call this
// concurrently; the chat key's unique index guarantees one row.
func (s *Service) OpenSession(ctx context.Context, userId, peerId string) (*respond.OpenSessionRespond, error) {
	if peerId == userId {
		return nil, errorx.New(errorx.CodeInvalidParam, "cannot open a session with yourself")
	}
	peer, err := s.repos.User.FindByUuid(peerId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "peer not found")
		}
		return nil, err
	}

	key := chatkey.Derive(userId, peerId)
	one, two, _ := chatkey.Participants(key)
	session, err := s.repos.Session.GetOrCreate(&model.Session{
		Uuid:           key,
		ParticipantOne: one,
		ParticipantTwo: two,
	})
	if err != nil {
		return nil, err
	}
	return &respond.OpenSessionRespond{
		SessionId: session.Uuid,
		Peer: respond.RosterPeerRespond{
			Uuid:      peer.Uuid,
			Firstname: peer.Firstname,
			Lastname:  peer.Lastname,
			Status:    peer.Status,
		},
	}, nil
}

// Authorize verifies the caller takes part in the session and returns
// the peer's id.
func (s *Service) Authorize(ctx context.Context, userId, sessionId string) (peerId string, err error) {
	if _, err := s.repos.Session.FindByUuid(sessionId); err != nil {
		return "", err
	}
	peerId, ok := chatkey.Other(sessionId, userId)
	if !ok {
		return "", errorx.ErrForbidden
	}
	return peerId, nil
}
