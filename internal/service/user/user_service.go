// Package user serves the directory view and persists presence
// transitions.
package user

import (
	"context"
	"time"

	"github.com/Avatara12345/Chat-Application/internal/dao/mysql"
	"github.com/Avatara12345/Chat-Application/internal/dto/respond"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
)

// Service reads user records and writes presence.
type Service struct {
	repos *mysql.Repositories
}

// NewService builds the user service.
func NewService(repos *mysql.Repositories) *Service {
	return &Service{repos: repos}
}

// GetUser returns one directory entry.
func (s *Service) GetUser(ctx context.Context, uuid string) (*respond.UserRespond, error) {
	user, err := s.repos.User.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "user not found")
		}
		return nil, err
	}
	rsp := buildUserRespond(user)
	return &rsp, nil
}

// ListUsers returns everyone except the caller, for starting new
// conversations.
func (s *Service) ListUsers(ctx context.Context, selfUuid string) ([]respond.UserRespond, error) {
	users, err := s.repos.User.FindAllExcept(selfUuid)
	if err != nil {
		return nil, err
	}
	rsp := make([]respond.UserRespond, 0, len(users))
	for i := range users {
		rsp = append(rsp, buildUserRespond(&users[i]))
	}
	return rsp, nil
}

// SetPresence stamps status and last-seen. Implements
// chat.PresenceWriter.
func (s *Service) SetPresence(ctx context.Context, userId, status string) error {
	if status != model.PresenceOnline && status != model.PresenceOffline {
		return errorx.ErrInvalidParam
	}
	return s.repos.User.UpdatePresence(userId, status, time.Now())
}

func buildUserRespond(u *model.User) respond.UserRespond {
	rsp := respond.UserRespond{
		Uuid:      u.Uuid,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		Status:    u.Status,
	}
	if u.LastSeenAt.Valid {
		rsp.LastSeen = u.LastSeenAt.Time.Format("2006-01-02 15:04:05")
	}
	return rsp
}
