package services

import (
	"context"
	"testing"

	"github.com/hiresphere/hiresphere/internal/models"
	"github.com/hiresphere/hiresphere/internal/utils"
	"github.com/stretchr/testify/require"
)

type fakeJobRepo struct {
	byID map[string]*models.JobPosting
}

func (f *fakeJobRepo) GetByID(_ context.Context, id string) (*models.JobPosting, error) {
	j, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return j, nil
}

func (f *fakeJobRepo) List(_ context.Context) ([]models.JobPosting, error) {
	var out []models.JobPosting
	for _, j := range f.byID {
		out = append(out, *j)
	}
	return out, nil
}

func newApplicationFixture(candSkills string, candExp int, jobReqs string) (ApplicationService, *fakeApplicationRepo) {
	cands := &fakeCandidateRepo{byID: map[string]*models.Candidate{
		"cand-1": {ID: "cand-1", Email: "dev@x.io", Skills: candSkills, Experience: candExp},
	}}
	jobs := &fakeJobRepo{byID: map[string]*models.JobPosting{
		"job-1": {ID: "job-1", Title: "Backend Engineer", Requirements: jobReqs},
	}}
	apps := &fakeApplicationRepo{}
	svc := NewApplicationService(apps, cands, jobs, &fixedScorer{total: 61.5}, nil)
	return svc, apps
}

func TestApply_CreatesAndShortlistsQualifiedCandidate(t *testing.T) {
	svc, _ := newApplicationFixture("Python, Go", 6, "Python, Django, 5+ years experience")

	app, err := svc.Apply(context.Background(), "cand-1", "job-1")

	require.NoError(t, err)
	require.Equal(t, models.StatusShortlisted, app.Status)
}

func TestApply_UnderMinimumExperienceStaysPending(t *testing.T) {
	svc, _ := newApplicationFixture("Python, Go", 2, "Python, Django, 5+ years experience")

	app, err := svc.Apply(context.Background(), "cand-1", "job-1")

	require.NoError(t, err)
	require.Equal(t, models.StatusPending, app.Status)
}

func TestApply_UnknownExperienceIsNotHeldAgainstCandidate(t *testing.T) {
	// Experience 0 means "not extracted yet", not "zero years".
	svc, _ := newApplicationFixture("Python", 0, "Python, 5+ years experience")

	app, err := svc.Apply(context.Background(), "cand-1", "job-1")

	require.NoError(t, err)
	require.Equal(t, models.StatusShortlisted, app.Status)
}

func TestApply_NoSkillOverlapStaysPending(t *testing.T) {
	svc, _ := newApplicationFixture("Cobol, Fortran", 6, "Python, Django, 5+ years experience")

	app, err := svc.Apply(context.Background(), "cand-1", "job-1")

	require.NoError(t, err)
	require.Equal(t, models.StatusPending, app.Status)
}

func TestApply_ReapplicationReturnsExistingRowUnchanged(t *testing.T) {
	svc, apps := newApplicationFixture("Python", 6, "Python, 5+ years experience")

	first, err := svc.Apply(context.Background(), "cand-1", "job-1")
	require.NoError(t, err)

	second, err := svc.Apply(context.Background(), "cand-1", "job-1")
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Len(t, apps.apps, 1)
}

func TestApply_ValidatesInput(t *testing.T) {
	svc, _ := newApplicationFixture("Python", 6, "Python")

	_, err := svc.Apply(context.Background(), "", "job-1")
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Apply(context.Background(), "cand-1", "")
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestApply_UnknownCandidateOrJob(t *testing.T) {
	svc, _ := newApplicationFixture("Python", 6, "Python")

	_, err := svc.Apply(context.Background(), "ghost", "job-1")
	require.True(t, utils.IsCode(err, utils.CodeNotFound))

	_, err = svc.Apply(context.Background(), "cand-1", "no-such-job")
	require.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestBreakdown_RecomputesWithoutPersisting(t *testing.T) {
	cands := &fakeCandidateRepo{byID: map[string]*models.Candidate{}}
	jobs := &fakeJobRepo{byID: map[string]*models.JobPosting{}}
	apps := &fakeApplicationRepo{apps: []models.Application{{
		ID:          "app-1",
		CandidateID: "cand-1",
		JobID:       "job-1",
		Candidate:   &models.Candidate{ID: "cand-1"},
		Job:         &models.JobPosting{ID: "job-1"},
	}}}
	svc := NewApplicationService(apps, cands, jobs, &fixedScorer{total: 73.2}, nil)

	b, err := svc.Breakdown(context.Background(), "app-1")

	require.NoError(t, err)
	require.Equal(t, 73.2, b.TotalScore)
	require.Empty(t, apps.saved)
}

func TestBreakdown_UnknownApplication(t *testing.T) {
	svc, _ := newApplicationFixture("Python", 6, "Python")

	_, err := svc.Breakdown(context.Background(), "ghost")
	require.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestRescoreAll_PersistsEveryScoreAndSkipsOrphans(t *testing.T) {
	cands := &fakeCandidateRepo{byID: map[string]*models.Candidate{}}
	jobs := &fakeJobRepo{byID: map[string]*models.JobPosting{}}
	apps := &fakeApplicationRepo{apps: []models.Application{
		{
			ID:        "app-1",
			Candidate: &models.Candidate{ID: "cand-1"},
			Job:       &models.JobPosting{ID: "job-1"},
		},
		{ID: "app-orphan"},
	}}
	svc := NewApplicationService(apps, cands, jobs, &fixedScorer{total: 88.0}, nil)

	n, err := svc.RescoreAll(context.Background())

	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 88.0, apps.saved["app-1"])
	require.NotContains(t, apps.saved, "app-orphan")
}
