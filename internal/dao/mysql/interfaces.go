// Package mysql is the document store adapter: repository interfaces
// plus their gorm implementations. Services depend on the interfaces
// only, which keeps them testable against in-memory fakes.
package mysql

import (
	"time"

	"github.com/Avatara12345/Chat-Application/internal/model"
)

// UserRepository accesses registered accounts and their presence.
type UserRepository interface {
	FindByUuid(uuid string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	// FindAllExcept lists every user except the given one, for the
	// roster's search/new-contact view.
	FindAllExcept(excludeUuid string) ([]model.User, error)
	FindByUuids(uuids []string) ([]model.User, error)
	CreateUser(user *model.User) error
	// UpdatePresence stamps status and last-seen in one field update.
	UpdatePresence(uuid string, status string, at time.Time) error
}

// SessionRepository accesses two-party chat sessions.
type SessionRepository interface {
	FindByUuid(uuid string) (*model.Session, error)
	// FindByParticipant lists sessions the user takes part in, most
	// recently active first.
	FindByParticipant(userUuid string) ([]model.Session, error)
	// GetOrCreate inserts the session unless a row with the same chat
	// key exists, then returns the surviving row. Safe under concurrent
	// invocation by both participants: first writer wins.
	GetOrCreate(session *model.Session) (*model.Session, error)
	// TouchLastMessageAt bumps the roster ordering timestamp.
	TouchLastMessageAt(uuid string, at time.Time) error
}

// MessageRepository accesses the per-session message stream. All
// mutations are field-level partial updates; rows are never replaced.
type MessageRepository interface {
	Create(message *model.Message) error
	FindByUuid(uuid int64) (*model.Message, error)
	// FindBySessionId returns the stream in creation order (ascending).
	FindBySessionId(sessionId string) ([]model.Message, error)
	// FindLatestBySessionId returns the newest message, deleted or not,
	// or a not-found error for an empty session.
	FindLatestBySessionId(sessionId string) (*model.Message, error)
	// CountUnread counts messages addressed to receiverId still in
	// {sent, delivered}.
	CountUnread(sessionId, receiverId string) (int64, error)
	// AdvanceStatus moves one message's status forward, stamping read_at
	// when the target is read. The update is guarded by
	// `status < target`, so regressions and retries are silent no-ops.
	AdvanceStatus(uuid int64, target int8, at time.Time) error
	// MarkDelivered sweeps every sent message addressed to receiverId
	// in the session to delivered.
	MarkDelivered(sessionId, receiverId string) error
	// MarkRead sweeps every unread message addressed to receiverId to
	// read, stamping read_at.
	MarkRead(sessionId, receiverId string, at time.Time) error
	// SoftDelete sets the deleted flag only; status and timestamps
	// survive so a racing read transition is not clobbered.
	SoftDelete(uuid int64) error
}
