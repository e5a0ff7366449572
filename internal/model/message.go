package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Message belongs to exactly one session. Rows are append-only except
// for three field-level mutations: delivery status advancement, the
// read timestamp, and the soft-delete flag. Status and Deleted are
// independent columns so a delivered→read race with a delete resolves
// by applying both.
type Message struct {
	gorm.Model

	// Uuid is a snowflake id; bigint avoids overflow.
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:message snowflake id"`

	// SessionId is the owning chat key.
	SessionId string `gorm:"column:session_id;index;type:varchar(64);not null"`

	SenderId   string `gorm:"column:sender_id;index;type:char(20);not null"`
	ReceiverId string `gorm:"column:receiver_id;index;type:char(20);not null"`

	// Content may be empty for attachment-only messages.
	Content string `gorm:"column:content;type:TEXT"`

	// Attachment is a self-contained encoded payload (data URI), opaque
	// to this server. AttachmentType is its media type tag.
	Attachment     string `gorm:"column:attachment;type:LONGTEXT"`
	AttachmentType string `gorm:"column:attachment_type;type:varchar(100)"`

	// Status holds a delivery.Status value: 0 sent, 1 delivered, 2 read.
	// Never regresses.
	Status int8 `gorm:"column:status;not null;comment:0 sent, 1 delivered, 2 read"`

	// Deleted marks a sender-side soft delete. Irreversible; the
	// original body must not be exposed once set.
	Deleted bool `gorm:"column:deleted;not null;default:false"`

	// ReadAt is stamped together with the read transition.
	ReadAt sql.NullTime `gorm:"column:read_at;type:datetime"`
}

func (Message) TableName() string {
	return "message"
}
