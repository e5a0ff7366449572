// Package mysqltest provides in-memory repository fakes mirroring the
// gorm implementations' semantics, for service-layer tests.
package mysqltest

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Avatara12345/Chat-Application/internal/dao/mysql"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/internal/service/delivery"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
)

// Fakes bundles the fake repositories behind a ready Repositories
// aggregate.
type Fakes struct {
	Repos    *mysql.Repositories
	Users    *UserRepo
	Sessions *SessionRepo
	Messages *MessageRepo
}

// NewFakes builds an empty in-memory store.
func NewFakes() *Fakes {
	users := &UserRepo{byUuid: map[string]*model.User{}}
	sessions := &SessionRepo{byUuid: map[string]*model.Session{}}
	messages := &MessageRepo{}
	return &Fakes{
		Repos: &mysql.Repositories{
			User:    users,
			Session: sessions,
			Message: messages,
		},
		Users:    users,
		Sessions: sessions,
		Messages: messages,
	}
}

func notFound(what string) error {
	return errorx.New(errorx.CodeNotFound, what+" not found")
}

// UserRepo is an in-memory mysql.UserRepository.
type UserRepo struct {
	mu     sync.Mutex
	byUuid map[string]*model.User
}

func (r *UserRepo) FindByUuid(uuid string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byUuid[uuid]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, notFound("user")
}

func (r *UserRepo) FindByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byUuid {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user")
}

func (r *UserRepo) FindAllExcept(excludeUuid string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.byUuid {
		if u.Uuid != excludeUuid {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Uuid < out[j].Uuid })
	return out, nil
}

func (r *UserRepo) FindByUuids(uuids []string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, uuid := range uuids {
		if u, ok := r.byUuid[uuid]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *UserRepo) CreateUser(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byUuid {
		if u.Email == user.Email {
			return errorx.New(errorx.CodeDBError, "duplicate email")
		}
	}
	// Mirror the model's BeforeSave hook.
	if user.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.RawPassword), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.Password = string(hash)
		user.RawPassword = ""
	}
	cp := *user
	r.byUuid[user.Uuid] = &cp
	return nil
}

func (r *UserRepo) UpdatePresence(uuid string, status string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byUuid[uuid]
	if !ok {
		return notFound("user")
	}
	u.Status = status
	u.LastSeenAt.Time = at
	u.LastSeenAt.Valid = true
	return nil
}

// SessionRepo is an in-memory mysql.SessionRepository.
type SessionRepo struct {
	mu     sync.Mutex
	byUuid map[string]*model.Session
}

func (r *SessionRepo) FindByUuid(uuid string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byUuid[uuid]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, notFound("session")
}

func (r *SessionRepo) FindByParticipant(userUuid string) ([]model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Session
	for _, s := range r.byUuid {
		if s.ParticipantOne == userUuid || s.ParticipantTwo == userUuid {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageAt.Time.After(out[j].LastMessageAt.Time)
	})
	return out, nil
}

func (r *SessionRepo) GetOrCreate(session *model.Session) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byUuid[session.Uuid]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *session
	r.byUuid[session.Uuid] = &cp
	out := cp
	return &out, nil
}

func (r *SessionRepo) TouchLastMessageAt(uuid string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byUuid[uuid]
	if !ok {
		return notFound("session")
	}
	s.LastMessageAt.Time = at
	s.LastMessageAt.Valid = true
	return nil
}

// MessageRepo is an in-memory mysql.MessageRepository.
type MessageRepo struct {
	mu       sync.Mutex
	messages []*model.Message
}

func (r *MessageRepo) Create(message *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	cp := *message
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *MessageRepo) FindByUuid(uuid int64) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.Uuid == uuid {
			cp := *m
			return &cp, nil
		}
	}
	return nil, notFound("message")
}

func (r *MessageRepo) FindBySessionId(sessionId string) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Message
	for _, m := range r.messages {
		if m.SessionId == sessionId {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *MessageRepo) FindLatestBySessionId(sessionId string) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].SessionId == sessionId {
			cp := *r.messages[i]
			return &cp, nil
		}
	}
	return nil, notFound("message")
}

func (r *MessageRepo) CountUnread(sessionId, receiverId string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.SessionId == sessionId && m.ReceiverId == receiverId &&
			delivery.Status(m.Status).Unread() {
			count++
		}
	}
	return count, nil
}

func (r *MessageRepo) AdvanceStatus(uuid int64, target int8, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.Uuid == uuid && m.Status < target {
			m.Status = target
			if target == int8(delivery.StatusRead) {
				m.ReadAt.Time = at
				m.ReadAt.Valid = true
			}
		}
	}
	return nil
}

func (r *MessageRepo) MarkDelivered(sessionId, receiverId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.SessionId == sessionId && m.ReceiverId == receiverId &&
			m.Status == int8(delivery.StatusSent) {
			m.Status = int8(delivery.StatusDelivered)
		}
	}
	return nil
}

func (r *MessageRepo) MarkRead(sessionId, receiverId string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.SessionId == sessionId && m.ReceiverId == receiverId &&
			m.Status < int8(delivery.StatusRead) {
			m.Status = int8(delivery.StatusRead)
			m.ReadAt.Time = at
			m.ReadAt.Valid = true
		}
	}
	return nil
}

func (r *MessageRepo) SoftDelete(uuid int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.Uuid == uuid {
			m.Deleted = true
		}
	}
	return nil
}
