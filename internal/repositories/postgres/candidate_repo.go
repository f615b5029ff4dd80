package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/hiresphere/hiresphere/internal/models"
	"github.com/hiresphere/hiresphere/internal/utils"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	Insert(ctx context.Context, c *models.Candidate) error
	SetResumePath(ctx context.Context, id, path string) error
	// SaveExtraction overwrites the parsed_data blob and the denormalized
	// skill/experience/education projection in one update.
	SaveExtraction(ctx context.Context, c *models.Candidate) error
	ListWithResume(ctx context.Context) ([]models.Candidate, error)
}

type candidateRepo struct {
	db *gorm.DB
}

func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	var c models.Candidate
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *candidateRepo) Insert(ctx context.Context, c *models.Candidate) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *candidateRepo) SetResumePath(ctx context.Context, id, path string) error {
	return r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"resume_path": path,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *candidateRepo) SaveExtraction(ctx context.Context, c *models.Candidate) error {
	return r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"parsed_data": c.ParsedData,
			"skills":      c.Skills,
			"experience":  c.Experience,
			"education":   c.Education,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *candidateRepo) ListWithResume(ctx context.Context) ([]models.Candidate, error) {
	var out []models.Candidate
	err := r.db.WithContext(ctx).
		Where("resume_path <> ''").
		Find(&out).Error
	return out, err
}
