package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// DefaultGroup is the pub/sub channel recruiter subscribers listen on.
const DefaultGroup = "notify:recruiters"

// RealtimePublisher delivers events to the recruiter subscriber group via
// Redis pub/sub. The WebSocket layer forwards them to connected clients.
type RealtimePublisher struct {
	rdb   *redis.Client
	group string
}

func NewRealtimePublisher(rdb *redis.Client, group string) *RealtimePublisher {
	if group == "" {
		group = DefaultGroup
	}
	return &RealtimePublisher{rdb: rdb, group: group}
}

func (p *RealtimePublisher) Name() string { return "realtime" }

func (p *RealtimePublisher) Send(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.group, payload).Err()
}

// Group returns the pub/sub channel name for subscribers.
func (p *RealtimePublisher) Group() string { return p.group }

var _ Channel = (*RealtimePublisher)(nil)
