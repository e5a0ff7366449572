package repository

import (
	"time"

	"github.com/Avatara12345/Chat-Application/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates the gorm-backed session repository.
func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) FindByUuid(uuid string) (*model.Session, error) {
	var session model.Session
	if err := r.db.Where("uuid = ?", uuid).First(&session).Error; err != nil {
		return nil, wrapDBErrorf(err, "find session uuid=%s", uuid)
	}
	return &session, nil
}

func (r *sessionRepository) FindByParticipant(userUuid string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.Where("participant_one = ? OR participant_two = ?", userUuid, userUuid).
		Order("last_message_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find sessions for user=%s", userUuid)
	}
	return sessions, nil
}

// GetOrCreate relies on the unique index on uuid (the deterministic
// chat key): the insert is DO NOTHING on conflict, then the surviving
// row is read back. Two clients racing to create the same session both
// end up with the first writer's record.
func (r *sessionRepository) GetOrCreate(session *model.Session) (*model.Session, error) {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uuid"}},
		DoNothing: true,
	}).Create(session).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "get-or-create session uuid=%s", session.Uuid)
	}

	var existing model.Session
	if err := r.db.Where("uuid = ?", session.Uuid).First(&existing).Error; err != nil {
		return nil, wrapDBErrorf(err, "read back session uuid=%s", session.Uuid)
	}
	return &existing, nil
}

func (r *sessionRepository) TouchLastMessageAt(uuid string, at time.Time) error {
	err := r.db.Model(&model.Session{}).
		Where("uuid = ?", uuid).
		Update("last_message_at", at).Error
	if err != nil {
		return wrapDBErrorf(err, "touch session uuid=%s", uuid)
	}
	return nil
}
