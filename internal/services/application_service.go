package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"github.com/hiresphere/hiresphere/internal/models"
	pgrepo "github.com/hiresphere/hiresphere/internal/repositories/postgres"
	"github.com/hiresphere/hiresphere/internal/scoring"
	"github.com/hiresphere/hiresphere/internal/utils"
	"github.com/sirupsen/logrus"
)

type ApplicationService interface {
	// Apply creates the (candidate, job) application if it does not
	// exist. Re-application returns the existing row unchanged.
	Apply(ctx context.Context, candidateID, jobID string) (*models.Application, error)
	// Breakdown recomputes the factor report without persisting anything.
	Breakdown(ctx context.Context, applicationID string) (*scoring.Breakdown, error)
	// RescoreAll recomputes and persists the score of every application.
	// No notifications are sent. Returns the number rescored.
	RescoreAll(ctx context.Context) (int, error)
}

type applicationService struct {
	applications pgrepo.ApplicationRepository
	candidates   pgrepo.CandidateRepository
	jobs         pgrepo.JobRepository
	engine       scorer
	logger       *logrus.Logger
}

func NewApplicationService(
	applications pgrepo.ApplicationRepository,
	candidates pgrepo.CandidateRepository,
	jobs pgrepo.JobRepository,
	engine scorer,
	logger *logrus.Logger,
) ApplicationService {
	if logger == nil {
		logger = logrus.New()
	}
	return &applicationService{
		applications: applications,
		candidates:   candidates,
		jobs:         jobs,
		engine:       engine,
		logger:       logger,
	}
}

func (s *applicationService) Apply(ctx context.Context, candidateID, jobID string) (*models.Application, error) {
	const op = "ApplicationService.Apply"

	if candidateID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id and job_id are required", nil)
	}

	cand, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	app, created, err := s.applications.FirstOrCreate(ctx, candidateID, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}

	if created && passesScreening(cand, job) && app.Status.CanTransitionTo(models.StatusShortlisted) {
		if err := s.applications.UpdateStatus(ctx, app.ID, models.StatusShortlisted); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to shortlist application", err)
		}
		app.Status = models.StatusShortlisted
	}

	return app, nil
}

var screeningExpRe = regexp.MustCompile(`(?i)(\d+)\+?\s*years?`)

// passesScreening runs the coarse pre-filter applied at apply-time: the
// candidate must meet a stated minimum experience and share at least one
// required skill, when the job states either.
func passesScreening(cand *models.Candidate, job *models.JobPosting) bool {
	if m := screeningExpRe.FindStringSubmatch(job.Requirements); m != nil {
		minExp, _ := strconv.Atoi(m[1])
		if cand.Experience > 0 && cand.Experience < minExp {
			return false
		}
	}

	jobSkills := scoring.TokenizeSkills(job.Requirements)
	candSkills := scoring.TokenizeSkills(cand.Skills)
	if len(jobSkills) > 0 && len(candSkills) > 0 {
		for sk := range jobSkills {
			if _, ok := candSkills[sk]; ok {
				return true
			}
		}
		return false
	}
	return true
}

func (s *applicationService) Breakdown(ctx context.Context, applicationID string) (*scoring.Breakdown, error) {
	const op = "ApplicationService.Breakdown"

	if applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application_id is required", nil)
	}

	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}
	if app.Candidate == nil || app.Job == nil {
		return nil, utils.E(utils.CodeInternal, op, "application is missing candidate or job", nil)
	}

	b := s.engine.Compute(ctx, app.Candidate, app.Job)
	return &b, nil
}

func (s *applicationService) RescoreAll(ctx context.Context) (int, error) {
	const op = "ApplicationService.RescoreAll"

	apps, err := s.applications.ListAll(ctx)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}

	n := 0
	for i := range apps {
		app := &apps[i]
		if app.Candidate == nil || app.Job == nil {
			s.logger.WithField("application_id", app.ID).Warn("skipping application without candidate or job")
			continue
		}

		b := s.engine.Compute(ctx, app.Candidate, app.Job)
		app.Score = b.TotalScore
		app.SkillsScore = b.SkillsScore
		app.ExperienceScore = b.ExperienceScore
		app.EducationScore = b.EducationScore
		app.AIScore = b.AIScore
		app.MatchingSkills = b.MatchingSkills
		if err := s.applications.SaveScore(ctx, app); err != nil {
			return n, utils.E(utils.CodeInternal, op, "failed to persist score", err)
		}
		n++
	}
	return n, nil
}
