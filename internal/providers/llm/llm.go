package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Request is a single one-shot completion call.
type Request struct {
	System      string
	User        string
	Temperature float32
}

// Provider is one AI backend capable of answering a Request.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Config describes one entry of the provider chain. An empty APIKey means
// the entry is not configured and is skipped.
type Config struct {
	Kind    string // "deepseek" | "openai" | "gemini"
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

const defaultTimeout = 30 * time.Second

// Chain tries providers in priority order and returns the first answer.
// An empty chain is a valid configuration meaning "fallback only".
type Chain struct {
	providers []Provider
	logger    *logrus.Logger
}

func NewChain(ctx context.Context, cfgs []Config, logger *logrus.Logger) (*Chain, error) {
	if logger == nil {
		logger = logrus.New()
	}

	var providers []Provider
	for _, cfg := range cfgs {
		if cfg.APIKey == "" {
			continue
		}
		if cfg.Timeout <= 0 {
			cfg.Timeout = defaultTimeout
		}

		var p Provider
		switch cfg.Kind {
		case "deepseek", "openai":
			p = NewOpenAIChat(cfg)
		case "gemini":
			g, err := NewGemini(ctx, cfg)
			if err != nil {
				return nil, fmt.Errorf("init gemini provider: %w", err)
			}
			p = g
		default:
			return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
		}
		providers = append(providers, timeoutProvider{Provider: p, timeout: cfg.Timeout})
	}

	return &Chain{providers: providers, logger: logger}, nil
}

// timeoutProvider bounds every call with the per-provider timeout. A hung
// connection must fail the provider, not stall the pipeline run.
type timeoutProvider struct {
	Provider
	timeout time.Duration
}

func (p timeoutProvider) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.Provider.Complete(ctx, req)
}

// Empty reports whether no provider is configured.
func (c *Chain) Empty() bool { return c == nil || len(c.providers) == 0 }

var ErrNoProvider = errors.New("no llm provider configured")

func (c *Chain) Complete(ctx context.Context, req Request) (string, error) {
	if c.Empty() {
		return "", ErrNoProvider
	}

	var lastErr error
	for _, p := range c.providers {
		out, err := p.Complete(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err
		c.logger.WithFields(logrus.Fields{
			"provider": p.Name(),
		}).WithError(err).Warn("llm provider failed, trying next")
	}
	return "", lastErr
}
