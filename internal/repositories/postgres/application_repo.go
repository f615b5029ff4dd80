package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hiresphere/hiresphere/internal/models"
	"github.com/hiresphere/hiresphere/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Application, error)
	// FirstOrCreate inserts a Pending application for the pair, or returns
	// the existing row. Re-application never duplicates.
	FirstOrCreate(ctx context.Context, candidateID, jobID string) (*models.Application, bool, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]models.Application, error)
	ListAll(ctx context.Context) ([]models.Application, error)
	SaveScore(ctx context.Context, app *models.Application) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Job").
		Where("id = ?", id).
		Take(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &app, err
}

func (r *applicationRepo) FirstOrCreate(ctx context.Context, candidateID, jobID string) (*models.Application, bool, error) {
	app := &models.Application{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		JobID:       jobID,
		Status:      models.StatusPending,
		AppliedAt:   time.Now().UTC(),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "job_id"}},
			DoNothing: true,
		}).
		Create(app)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return app, true, nil
	}

	var existing models.Application
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND job_id = ?", candidateID, jobID).
		Take(&existing).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID string) ([]models.Application, error) {
	var out []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("candidate_id = ?", candidateID).
		Find(&out).Error
	return out, err
}

func (r *applicationRepo) ListAll(ctx context.Context) ([]models.Application, error) {
	var out []models.Application
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Job").
		Find(&out).Error
	return out, err
}

func (r *applicationRepo) SaveScore(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", app.ID).
		Updates(map[string]any{
			"score":            app.Score,
			"skills_score":     app.SkillsScore,
			"experience_score": app.ExperienceScore,
			"education_score":  app.EducationScore,
			"ai_score":         app.AIScore,
			"matching_skills":  app.MatchingSkills,
			"scored_at":        time.Now().UTC(),
		}).Error
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}
