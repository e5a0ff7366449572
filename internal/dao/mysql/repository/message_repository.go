package repository

import (
	"time"

	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/internal/service/delivery"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates the gorm-backed message repository.
func NewMessageRepository(db *gorm.DB) *messageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "create message")
	}
	return nil
}

func (r *messageRepository) FindByUuid(uuid int64) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("uuid = ?", uuid).First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "find message uuid=%d", uuid)
	}
	return &message, nil
}

func (r *messageRepository) FindBySessionId(sessionId string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("session_id = ?", sessionId).
		Order("created_at ASC, uuid ASC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find messages session_id=%s", sessionId)
	}
	return messages, nil
}

func (r *messageRepository) FindLatestBySessionId(sessionId string) (*model.Message, error) {
	var message model.Message
	err := r.db.Where("session_id = ?", sessionId).
		Order("created_at DESC, uuid DESC").
		First(&message).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find latest message session_id=%s", sessionId)
	}
	return &message, nil
}

func (r *messageRepository) CountUnread(sessionId, receiverId string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("session_id = ? AND receiver_id = ? AND status IN ?",
			sessionId, receiverId,
			[]int8{int8(delivery.StatusSent), int8(delivery.StatusDelivered)}).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "count unread session_id=%s", sessionId)
	}
	return count, nil
}

// AdvanceStatus is guarded by `status < target`: the target state is
// absolute, so regressions match zero rows and retries are idempotent.
func (r *messageRepository) AdvanceStatus(uuid int64, target int8, at time.Time) error {
	updates := map[string]interface{}{"status": target}
	if target == int8(delivery.StatusRead) {
		updates["read_at"] = at
	}
	err := r.db.Model(&model.Message{}).
		Where("uuid = ? AND status < ?", uuid, target).
		Updates(updates).Error
	if err != nil {
		return wrapDBErrorf(err, "advance message uuid=%d to status=%d", uuid, target)
	}
	return nil
}

func (r *messageRepository) MarkDelivered(sessionId, receiverId string) error {
	err := r.db.Model(&model.Message{}).
		Where("session_id = ? AND receiver_id = ? AND status = ?",
			sessionId, receiverId, int8(delivery.StatusSent)).
		Update("status", int8(delivery.StatusDelivered)).Error
	if err != nil {
		return wrapDBErrorf(err, "mark delivered session_id=%s", sessionId)
	}
	return nil
}

func (r *messageRepository) MarkRead(sessionId, receiverId string, at time.Time) error {
	err := r.db.Model(&model.Message{}).
		Where("session_id = ? AND receiver_id = ? AND status < ?",
			sessionId, receiverId, int8(delivery.StatusRead)).
		Updates(map[string]interface{}{
			"status":  int8(delivery.StatusRead),
			"read_at": at,
		}).Error
	if err != nil {
		return wrapDBErrorf(err, "mark read session_id=%s", sessionId)
	}
	return nil
}

// SoftDelete touches only the deleted flag. Status and read_at stay
// untouched so a concurrent read transition applies alongside.
func (r *messageRepository) SoftDelete(uuid int64) error {
	err := r.db.Model(&model.Message{}).
		Where("uuid = ?", uuid).
		Update("deleted", true).Error
	if err != nil {
		return wrapDBErrorf(err, "soft delete message uuid=%d", uuid)
	}
	return nil
}
