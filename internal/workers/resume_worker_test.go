package workers

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hiresphere/hiresphere/internal/services"
)

// memLocker is an in-process candidateLocker with owner-checked release.
type memLocker struct {
	held map[string]string // candidateID -> owning token
	seq  int

	releases []string // tokens passed to Release
}

func newMemLocker() *memLocker {
	return &memLocker{held: map[string]string{}}
}

func (l *memLocker) Acquire(_ context.Context, candidateID string) (string, bool, error) {
	if _, taken := l.held[candidateID]; taken {
		return "", false, nil
	}
	l.seq++
	token := "tok-" + strconv.Itoa(l.seq)
	l.held[candidateID] = token
	return token, true, nil
}

func (l *memLocker) Release(_ context.Context, candidateID, token string) error {
	l.releases = append(l.releases, token)
	if l.held[candidateID] == token {
		delete(l.held, candidateID)
	}
	return nil
}

type fakePipeline struct {
	runs []string
	err  error
}

func (f *fakePipeline) Run(_ context.Context, candidateID string) (*services.PipelineResult, error) {
	f.runs = append(f.runs, candidateID)
	if f.err != nil {
		return nil, f.err
	}
	return &services.PipelineResult{CandidateID: candidateID}, nil
}

func (f *fakePipeline) ReparseAll(context.Context) (int, error) { return 0, nil }

type recordingEnqueuer struct {
	enqueued []string
}

func (r *recordingEnqueuer) Enqueue(_ context.Context, candidateID string) error {
	r.enqueued = append(r.enqueued, candidateID)
	return nil
}

func newTestPool(locker candidateLocker, pipeline services.PipelineService, requeue services.Enqueuer) *ResumeWorkerPool {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return &ResumeWorkerPool{
		Pipeline:   pipeline,
		Logger:     l,
		locker:     locker,
		requeue:    requeue,
		retryDelay: time.Millisecond,
	}
}

func candidateMsg(candidateID string) redis.XMessage {
	return redis.XMessage{
		ID:     "1-0",
		Values: map[string]any{"candidate_id": candidateID},
	}
}

func TestHandleMsg_RunsPipelineAndReleasesOwnToken(t *testing.T) {
	locker := newMemLocker()
	pipeline := &fakePipeline{}
	p := newTestPool(locker, pipeline, &recordingEnqueuer{})

	p.handleMsg(context.Background(), "c-1", candidateMsg("cand-1"))

	require.Equal(t, []string{"cand-1"}, pipeline.runs)
	require.Empty(t, locker.held, "lock must be freed after the run")
	require.Len(t, locker.releases, 1)
	require.Equal(t, "tok-1", locker.releases[0], "release must carry the acquired token")
}

func TestHandleMsg_LockedCandidateIsRequeuedNotRun(t *testing.T) {
	locker := newMemLocker()
	_, ok, err := locker.Acquire(context.Background(), "cand-1")
	require.NoError(t, err)
	require.True(t, ok)

	pipeline := &fakePipeline{}
	requeue := &recordingEnqueuer{}
	p := newTestPool(locker, pipeline, requeue)

	p.handleMsg(context.Background(), "c-1", candidateMsg("cand-1"))

	require.Empty(t, pipeline.runs)
	require.Equal(t, []string{"cand-1"}, requeue.enqueued)
	require.Len(t, locker.held, 1, "the competing run keeps its lock")
}

func TestHandleMsg_WaitsBeforeRequeueing(t *testing.T) {
	locker := newMemLocker()
	_, _, _ = locker.Acquire(context.Background(), "cand-1")

	p := newTestPool(locker, &fakePipeline{}, &recordingEnqueuer{})
	p.retryDelay = 50 * time.Millisecond

	start := time.Now()
	p.handleMsg(context.Background(), "c-1", candidateMsg("cand-1"))

	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestHandleMsg_PipelineFailureStillReleasesLock(t *testing.T) {
	locker := newMemLocker()
	pipeline := &fakePipeline{err: context.DeadlineExceeded}
	p := newTestPool(locker, pipeline, &recordingEnqueuer{})

	p.handleMsg(context.Background(), "c-1", candidateMsg("cand-1"))

	require.Empty(t, locker.held)
}

func TestHandleMsg_IgnoresMessagesWithoutCandidate(t *testing.T) {
	locker := newMemLocker()
	pipeline := &fakePipeline{}
	p := newTestPool(locker, pipeline, &recordingEnqueuer{})

	p.handleMsg(context.Background(), "c-1", redis.XMessage{ID: "1-0", Values: map[string]any{}})

	require.Empty(t, pipeline.runs)
	require.Empty(t, locker.releases)
}
