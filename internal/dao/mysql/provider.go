package mysql

import (
	"github.com/Avatara12345/Chat-Application/internal/dao/mysql/repository"

	"gorm.io/gorm"
)

// Repositories aggregates all repository instances; the service layer
// receives this as its single data-access dependency.
type Repositories struct {
	db      *gorm.DB
	User    UserRepository
	Session SessionRepository
	Message MessageRepository
}

// NewRepositories builds all repositories on one gorm instance.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:      db,
		User:    repository.NewUserRepository(db),
		Session: repository.NewSessionRepository(db),
		Message: repository.NewMessageRepository(db),
	}
}

// Transaction runs fn with repositories bound to a database
// transaction; an error rolls everything back.
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		// Hand-built Repositories (fakes) carry no db handle.
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
