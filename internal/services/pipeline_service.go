package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hiresphere/hiresphere/internal/models"
	"github.com/hiresphere/hiresphere/internal/notify"
	"github.com/hiresphere/hiresphere/internal/parser"
	pgrepo "github.com/hiresphere/hiresphere/internal/repositories/postgres"
	"github.com/hiresphere/hiresphere/internal/scoring"
	"github.com/hiresphere/hiresphere/internal/storage"
	"github.com/hiresphere/hiresphere/internal/utils"
	"github.com/sirupsen/logrus"
)

// Narrow collaborator contracts so the pipeline is testable without
// providers, Redis, or SMTP.
type fieldExtractor interface {
	Extract(ctx context.Context, text string) models.ResumeAttributes
}

type scorer interface {
	Compute(ctx context.Context, c *models.Candidate, j *models.JobPosting) scoring.Breakdown
}

type realtimeChannel interface {
	Send(ctx context.Context, ev notify.Event) error
}

type eventDispatcher interface {
	Dispatch(ctx context.Context, ev notify.Event) []notify.Outcome
}

// Enqueuer schedules a pipeline run for a candidate.
type Enqueuer interface {
	Enqueue(ctx context.Context, candidateID string) error
}

type PipelineConfig struct {
	// Applications scoring at or above this trigger the notification
	// fanout.
	ScoreThreshold float64
	// PortalURL is the recruiter frontend base, used in alert bodies.
	PortalURL string
}

// ScoredApplication is the per-application outcome of one pipeline run.
type ScoredApplication struct {
	ApplicationID string  `json:"application_id"`
	JobTitle      string  `json:"job_title"`
	Score         float64 `json:"score"`
	Notified      bool    `json:"notified"`
}

// PipelineResult reports what one run did.
type PipelineResult struct {
	CandidateID string                  `json:"candidate_id"`
	Skipped     bool                    `json:"skipped"` // no document attached
	Attributes  models.ResumeAttributes `json:"attributes"`
	Scored      []ScoredApplication     `json:"scored"`
}

// PipelineService runs the resume pipeline for one candidate: extract
// text, derive structured attributes, persist them, rescore every open
// application, and fan out alerts for qualifying scores.
type PipelineService interface {
	Run(ctx context.Context, candidateID string) (*PipelineResult, error)
	// ReparseAll enqueues a pipeline run for every candidate holding a
	// document. Returns the number enqueued.
	ReparseAll(ctx context.Context) (int, error)
}

type pipelineService struct {
	candidates   pgrepo.CandidateRepository
	applications pgrepo.ApplicationRepository
	store        storage.Store
	fields       fieldExtractor
	engine       scorer
	realtime     realtimeChannel
	dispatcher   eventDispatcher
	queue        Enqueuer
	cfg          PipelineConfig
	logger       *logrus.Logger

	// extractText is swappable in tests
	extractText func(path string) string
}

func NewPipelineService(
	candidates pgrepo.CandidateRepository,
	applications pgrepo.ApplicationRepository,
	store storage.Store,
	fields fieldExtractor,
	engine scorer,
	realtime realtimeChannel,
	dispatcher eventDispatcher,
	queue Enqueuer,
	cfg PipelineConfig,
	logger *logrus.Logger,
) PipelineService {
	if logger == nil {
		logger = logrus.New()
	}
	return &pipelineService{
		candidates:   candidates,
		applications: applications,
		store:        store,
		fields:       fields,
		engine:       engine,
		realtime:     realtime,
		dispatcher:   dispatcher,
		queue:        queue,
		cfg:          cfg,
		logger:       logger,
		extractText: func(path string) string {
			return parser.ExtractText(path, logger)
		},
	}
}

func (s *pipelineService) Run(ctx context.Context, candidateID string) (*PipelineResult, error) {
	const op = "PipelineService.Run"

	result := &PipelineResult{CandidateID: candidateID}

	cand, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// missing candidate is a no-op, not an error
			result.Skipped = true
			return result, nil
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	if cand.ResumePath == "" {
		result.Skipped = true
		return result, nil
	}

	log := s.logger.WithFields(logrus.Fields{
		"candidate_id": candidateID,
		"resume_path":  cand.ResumePath,
	})

	// extraction degrades to an empty string, never errors
	var text string
	localPath, cleanup, err := s.store.Fetch(ctx, cand.ResumePath)
	if err != nil {
		log.WithError(err).Warn("document unavailable, continuing with empty text")
	} else {
		text = s.extractText(localPath)
		cleanup()
	}

	attrs := s.fields.Extract(ctx, text)
	result.Attributes = attrs

	blob, err := json.Marshal(attrs)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode attributes", err)
	}
	cand.ParsedData = blob
	cand.Skills = strings.Join(attrs.Skills, ", ")
	cand.Experience = attrs.Experience
	cand.Education = attrs.Education

	if err := s.candidates.SaveExtraction(ctx, cand); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist extraction", err)
	}

	// best-effort: a publish failure must not abort the run
	if err := s.realtime.Send(ctx, notify.Event{
		Type:        notify.EventResumeProcessed,
		Title:       "Resume Analysis Complete",
		Message:     fmt.Sprintf("Finished parsing resume for %s", cand.Email),
		CandidateID: cand.ID,
	}); err != nil {
		log.WithError(err).Warn("failed to publish resume processed event")
	}

	apps, err := s.applications.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}

	for i := range apps {
		app := &apps[i]
		if app.Job == nil {
			log.WithField("application_id", app.ID).Warn("application has no job, skipping")
			continue
		}

		b := s.engine.Compute(ctx, cand, app.Job)

		app.Score = b.TotalScore
		app.SkillsScore = b.SkillsScore
		app.ExperienceScore = b.ExperienceScore
		app.EducationScore = b.EducationScore
		app.AIScore = b.AIScore
		app.MatchingSkills = b.MatchingSkills
		if err := s.applications.SaveScore(ctx, app); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to persist score", err)
		}

		scored := ScoredApplication{
			ApplicationID: app.ID,
			JobTitle:      app.Job.Title,
			Score:         b.TotalScore,
		}

		if b.TotalScore >= s.cfg.ScoreThreshold {
			s.dispatcher.Dispatch(ctx, s.highScoreEvent(cand, app, b.TotalScore))
			scored.Notified = true
		}
		result.Scored = append(result.Scored, scored)
	}

	log.WithField("applications", len(result.Scored)).Info("pipeline run complete")
	return result, nil
}

func (s *pipelineService) highScoreEvent(cand *models.Candidate, app *models.Application, score float64) notify.Event {
	return notify.Event{
		Type:  notify.EventHighScore,
		Title: fmt.Sprintf("Top Talent Alert: %s scored %.1f/100", cand.Email, score),
		Message: fmt.Sprintf(
			"Candidate: %s\nJob: %s\nScore: %.1f\n\nLogin to view details: %s/recruiter/view-application/%s",
			cand.Email, app.Job.Title, score, s.cfg.PortalURL, app.ID,
		),
		ShortText: fmt.Sprintf(
			"New top candidate! %s just scored %.1f for %s.",
			cand.Email, score, app.Job.Title,
		),
		CandidateID: cand.ID,
	}
}

func (s *pipelineService) ReparseAll(ctx context.Context) (int, error) {
	const op = "PipelineService.ReparseAll"

	cands, err := s.candidates.ListWithResume(ctx)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to list candidates", err)
	}

	n := 0
	for _, c := range cands {
		if err := s.queue.Enqueue(ctx, c.ID); err != nil {
			return n, utils.E(utils.CodeUnavailable, op, "failed to enqueue pipeline run", err)
		}
		n++
	}
	return n, nil
}
