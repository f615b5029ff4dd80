package postgres

import (
	"context"

	"github.com/hiresphere/hiresphere/internal/models"
	"gorm.io/gorm"
)

type RecruiterRepository interface {
	ListEmails(ctx context.Context) ([]string, error)
}

type recruiterRepo struct {
	db *gorm.DB
}

func NewRecruiterRepo(db *gorm.DB) RecruiterRepository {
	return &recruiterRepo{db: db}
}

func (r *recruiterRepo) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&models.Recruiter{}).
		Pluck("email", &emails).Error
	return emails, err
}
