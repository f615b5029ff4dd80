package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hiresphere/hiresphere/internal/services"
)

const (
	DefaultStream = "resume:stream"
	DefaultGroup  = "resume-workers"

	// candidateLockTTL bounds how long a crashed consumer can hold a
	// candidate lock.
	candidateLockTTL = 10 * time.Minute

	// lockRetryDelay spaces out requeue attempts for a locked candidate so
	// a competing run (which can include 30s-class provider calls) is not
	// polled at full speed.
	lockRetryDelay = 2 * time.Second
)

// Queue pushes pipeline runs onto the resume stream. It satisfies
// services.Enqueuer.
type Queue struct {
	Redis  *redis.Client
	Stream string
}

func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{Redis: rdb, Stream: DefaultStream}
}

func (q *Queue) Enqueue(ctx context.Context, candidateID string) error {
	return q.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: q.Stream,
		Values: map[string]any{
			"candidate_id": candidateID,
			"enqueued_at":  time.Now().UTC().Format(time.RFC3339),
		},
	}).Err()
}

// candidateLocker serializes pipeline runs per candidate. Two in-flight
// runs would race on the parsed_data write and double-send alerts.
type candidateLocker interface {
	// Acquire returns a release token and whether the lock was taken.
	Acquire(ctx context.Context, candidateID string) (token string, ok bool, err error)
	// Release frees the lock only if token still owns it.
	Release(ctx context.Context, candidateID, token string) error
}

type redisLocker struct {
	rdb *redis.Client
}

func lockKey(candidateID string) string { return "resume:lock:" + candidateID }

func (l redisLocker) Acquire(ctx context.Context, candidateID string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, lockKey(candidateID), token, candidateLockTTL).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// releaseLockScript deletes the candidate lock only if the caller still
// owns it, so an expired-and-reacquired lock is never removed from under
// its new owner.
var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (l redisLocker) Release(ctx context.Context, candidateID, token string) error {
	err := releaseLockScript.Run(ctx, l.rdb, []string{lockKey(candidateID)}, token).Err()
	if err != nil && err != redis.Nil {
		return err
	}
	return nil
}

// ResumeWorkerPool consumes the resume stream through a consumer group and
// runs the parsing pipeline for each message. Messages for a candidate
// already being processed elsewhere are requeued instead of run twice.
type ResumeWorkerPool struct {
	Redis      *redis.Client
	Pipeline   services.PipelineService
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string

	// swappable in tests
	locker     candidateLocker
	requeue    services.Enqueuer
	retryDelay time.Duration
}

func (p *ResumeWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Pipeline == nil {
		return errors.New("ResumeWorkerPool missing dependency: Redis/Pipeline must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultStream
	}
	if p.Group == "" {
		p.Group = DefaultGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 5
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
	if p.locker == nil {
		p.locker = redisLocker{rdb: p.Redis}
	}
	if p.requeue == nil {
		p.requeue = &Queue{Redis: p.Redis, Stream: p.Stream}
	}
	if p.retryDelay <= 0 {
		p.retryDelay = lockRetryDelay
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *ResumeWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, consumer, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *ResumeWorkerPool) handleMsg(ctx context.Context, consumer string, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	candidateID := getStr("candidate_id")
	if candidateID == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":     msg.ID,
		"candidate_id": candidateID,
		"consumer":     consumer,
	})

	token, ok, err := p.locker.Acquire(ctx, candidateID)
	if err != nil {
		log.WithError(err).Error("failed to acquire candidate lock")
		return
	}
	if !ok {
		// Another consumer holds the candidate. Wait out a beat, then push
		// the message back so it runs after the current pass finishes.
		log.Debug("candidate locked, requeueing")
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.retryDelay):
		}
		if err := p.requeue.Enqueue(ctx, candidateID); err != nil {
			log.WithError(err).Error("failed to requeue locked candidate")
		}
		return
	}
	defer func() {
		if err := p.locker.Release(ctx, candidateID, token); err != nil {
			log.WithError(err).Warn("failed to release candidate lock")
		}
	}()

	start := time.Now()
	result, err := p.Pipeline.Run(ctx, candidateID)
	if err != nil {
		log.WithError(err).Error("pipeline run failed")
		return
	}

	if result.Skipped {
		log.Info("pipeline run skipped, nothing to parse")
		return
	}
	log.WithFields(logrus.Fields{
		"applications":       len(result.Scored),
		"processing_time_ms": time.Since(start).Milliseconds(),
	}).Info("pipeline run complete")
}
