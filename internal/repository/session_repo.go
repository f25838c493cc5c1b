package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *model.Session) error {
	return r.db.Create(session).Error
}

func (r *SessionRepository) GetByToken(token string) (*model.Session, error) {
	var session model.Session
	err := r.db.Where("token = ?", token).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByToken 返回删除的行数，0 表示会话不存在
func (r *SessionRepository) DeleteByToken(token string) (int64, error) {
	result := r.db.Where("token = ?", token).Delete(&model.Session{})
	return result.RowsAffected, result.Error
}

func (r *SessionRepository) DeleteByUserID(userID int64) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&model.Session{})
	return result.RowsAffected, result.Error
}

func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&model.Session{})
	return result.RowsAffected, result.Error
}

func (r *SessionRepository) CountExpired(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Session{}).Where("expires_at <= ?", now).Count(&count).Error
	return count, err
}
