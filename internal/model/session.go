package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Session is a two-party chat. Uuid is the deterministic chat key
// derived from the sorted participant pair, so the unique index doubles
// as the idempotency guard for concurrent creation: at most one row can
// ever exist per unordered pair.
type Session struct {
	gorm.Model

	Uuid string `gorm:"column:uuid;uniqueIndex;type:varchar(64);not null;comment:chat key"`

	// ParticipantOne < ParticipantTwo, the sorted pair behind Uuid.
	ParticipantOne string `gorm:"column:participant_one;index;type:char(20);not null"`
	ParticipantTwo string `gorm:"column:participant_two;index;type:char(20);not null"`

	// LastMessageAt orders the roster; bumped on every append.
	LastMessageAt sql.NullTime `gorm:"column:last_message_at;type:datetime"`
}

func (Session) TableName() string {
	return "session"
}
