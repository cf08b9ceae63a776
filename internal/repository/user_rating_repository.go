package repository

import (
	"time"

	"mathquest_backend/internal/elo"
	"mathquest_backend/internal/model"

	"gorm.io/gorm"
)

type UserRatingRepository struct {
	DB *gorm.DB
}

func NewUserRatingRepository(db *gorm.DB) *UserRatingRepository {
	return &UserRatingRepository{DB: db}
}

// GetOrDefault returns the user's rating row, or the default (1000, 0
// attempts) when the user has never been rated.
func (r *UserRatingRepository) GetOrDefault(userID uint) (*model.UserRating, error) {
	var rating model.UserRating
	err := r.DB.First(&rating, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return &model.UserRating{UserID: userID, Rating: elo.DefaultRating}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// SaveWithHistory writes the updated rating row and appends the ledger entry
// in one transaction so counter and history move together.
func (r *UserRatingRepository) SaveWithHistory(rating *model.UserRating, entry *model.UserRatingHistoryEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		rating.UpdatedAt = time.Now()
		if err := tx.Save(rating).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *UserRatingRepository) History(userID uint, limit int) ([]model.UserRatingHistoryEntry, error) {
	var entries []model.UserRatingHistoryEntry
	err := r.DB.Where("user_id = ?", userID).
		Order("id desc").Limit(limit).Find(&entries).Error
	return entries, err
}
