package postgres

import (
	"context"
	"errors"

	"github.com/hiresphere/hiresphere/internal/models"
	"github.com/hiresphere/hiresphere/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	GetByID(ctx context.Context, id string) (*models.JobPosting, error)
	List(ctx context.Context) ([]models.JobPosting, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.JobPosting, error) {
	var j models.JobPosting
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &j, err
}

func (r *jobRepo) List(ctx context.Context) ([]models.JobPosting, error) {
	var out []models.JobPosting
	err := r.db.WithContext(ctx).
		Order("posted_at DESC").
		Find(&out).Error
	return out, err
}
