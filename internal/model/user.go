// Package model defines the persisted entities.
package model

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Presence values for User.Status.
const (
	PresenceOnline  = "online"
	PresenceOffline = "offline"
)

// User is a registered account. Presence writes are best-effort: a
// client that dies without tearing down simply leaves the last value.
type User struct {
	gorm.Model

	// Uuid is the opaque identity, "U" + date-prefixed random string.
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:user uuid"`

	Firstname string `gorm:"column:firstname;type:varchar(50);not null"`
	Lastname  string `gorm:"column:lastname;type:varchar(50)"`

	// Email is the login identifier.
	Email string `gorm:"column:email;uniqueIndex;type:varchar(100);not null"`

	// Password stores the bcrypt hash, never the plaintext.
	Password string `gorm:"column:password;type:varchar(100);not null"`

	// Status is PresenceOnline or PresenceOffline.
	Status string `gorm:"column:status;type:varchar(10);default:offline;not null"`

	// LastSeenAt is stamped on sign-in, sign-out and socket teardown.
	LastSeenAt sql.NullTime `gorm:"column:last_seen_at;type:datetime"`

	// RawPassword receives the plaintext from the transport layer and
	// is hashed into Password by BeforeSave. Never persisted.
	RawPassword string `gorm:"-" json:"-"`
}

func (User) TableName() string {
	return "user_info"
}

// BeforeSave hashes RawPassword into Password when set, so callers
// never handle bcrypt directly.
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// DisplayName joins the name parts for previews and logs.
func (u *User) DisplayName() string {
	if u.Lastname == "" {
		return u.Firstname
	}
	return u.Firstname + " " + u.Lastname
}
