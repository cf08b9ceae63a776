package repository

import (
	"mathquest_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.PracticeSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id string) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := r.DB.First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Save(session *model.PracticeSession) error {
	return r.DB.Save(session).Error
}

func (r *SessionRepository) CreateVideoFeedback(feedback *model.VideoFeedback) error {
	return r.DB.Create(feedback).Error
}
