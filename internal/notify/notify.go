package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Event is one notification fanned out to every configured channel.
type Event struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	CandidateID string `json:"candidate_id"`

	// ShortText is an optional compact rendering for chat channels;
	// Message is used when empty.
	ShortText string `json:"-"`
}

const (
	EventResumeProcessed = "RESUME_PROCESSED"
	EventHighScore       = "HIGH_SCORE"
)

// Channel is one delivery sink. Channels are stateless beyond their
// configuration.
type Channel interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

// Outcome is the per-channel delivery report.
type Outcome struct {
	Channel string
	Err     error
}

// Dispatcher fans an event out to all channels. Every channel runs under
// its own failure boundary: one channel failing (or panicking) never
// prevents the others from being attempted. At-most-once, no retries.
type Dispatcher struct {
	channels []Channel
	logger   *logrus.Logger
}

func NewDispatcher(logger *logrus.Logger, channels ...Channel) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{channels: channels, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) []Outcome {
	outcomes := make([]Outcome, 0, len(d.channels))
	for _, ch := range d.channels {
		err := d.attempt(ctx, ch, ev)

		entry := d.logger.WithFields(logrus.Fields{
			"channel":      ch.Name(),
			"event_type":   ev.Type,
			"candidate_id": ev.CandidateID,
		})
		if err != nil {
			entry.WithError(err).Warn("notification channel failed")
		} else {
			entry.Info("notification delivered")
		}

		outcomes = append(outcomes, Outcome{Channel: ch.Name(), Err: err})
	}
	return outcomes
}

func (d *Dispatcher) attempt(ctx context.Context, ch Channel, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel panic: %v", r)
		}
	}()
	return ch.Send(ctx, ev)
}
