package repository

import (
	"mathquest_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) CountForUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
