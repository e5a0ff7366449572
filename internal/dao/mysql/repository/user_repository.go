package repository

import (
	"time"

	"github.com/Avatara12345/Chat-Application/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the gorm-backed user repository.
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUuid(uuid string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user uuid=%s", uuid)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user email=%s", email)
	}
	return &user, nil
}

func (r *userRepository) FindAllExcept(excludeUuid string) ([]model.User, error) {
	var users []model.User
	if err := r.db.Where("uuid <> ?", excludeUuid).Order("firstname ASC").Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "list users")
	}
	return users, nil
}

func (r *userRepository) FindByUuids(uuids []string) ([]model.User, error) {
	var users []model.User
	if err := r.db.Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "find users by uuids")
	}
	return users, nil
}

func (r *userRepository) CreateUser(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) UpdatePresence(uuid string, status string, at time.Time) error {
	err := r.db.Model(&model.User{}).
		Where("uuid = ?", uuid).
		Updates(map[string]interface{}{
			"status":       status,
			"last_seen_at": at,
		}).Error
	if err != nil {
		return wrapDBErrorf(err, "update presence uuid=%s", uuid)
	}
	return nil
}
