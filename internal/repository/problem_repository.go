package repository

import (
	"mathquest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProblemRepository struct {
	DB *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{DB: db}
}

func (r *ProblemRepository) FindByID(id string) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.First(&problem, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

func (r *ProblemRepository) All() ([]model.Problem, error) {
	var problems []model.Problem
	err := r.DB.Order("id asc").Find(&problems).Error
	return problems, err
}

// List browses the corpus with an optional topic filter and LIKE search.
func (r *ProblemRepository) List(topic, query string, page, limit int) ([]model.Problem, int64, error) {
	q := r.DB.Model(&model.Problem{})
	if topic != "" {
		q = q.Where("topic = ?", topic)
	}
	if query != "" {
		q = q.Where("prompt LIKE ?", "%"+query+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var problems []model.Problem
	err := q.Order("id asc").Offset((page - 1) * limit).Limit(limit).Find(&problems).Error
	return problems, total, err
}

// Upsert inserts or replaces a content row; problems are import-owned and
// never edited through the practice flow.
func (r *ProblemRepository) Upsert(problem *model.Problem) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"topic", "seed_difficulty", "prompt", "answer_type", "answer_value", "answer_tolerance",
		}),
	}).Create(problem).Error
}

func (r *ProblemRepository) SetSolutionVideo(id, url string, seconds int) error {
	return r.DB.Model(&model.Problem{}).Where("id = ?", id).
		Updates(map[string]interface{}{"solution_video": url, "video_seconds": seconds}).Error
}
