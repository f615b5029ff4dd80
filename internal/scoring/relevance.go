package scoring

import (
	"context"
	"crypto/sha256"
	"fmt"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/hiresphere/hiresphere/internal/cache"
	"github.com/hiresphere/hiresphere/internal/providers/llm"
	"github.com/sirupsen/logrus"
)

const relevancePrompt = `You are a recruiter. Compare the Resume vs Job Description. Provide a 'Relevance Score' from 0-100 based on core skills, industry fit, and seniority. Return ONLY the integer number.`

// NeutralRelevance is returned whenever no provider answer is available;
// a midpoint rather than a penalty.
const NeutralRelevance = 50

const (
	maxPromptChars    = 2000
	relevanceCacheTTL = 24 * time.Hour
)

type completionChain interface {
	Empty() bool
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// ChainEstimator asks the provider chain for a relevance score, memoizing
// answers in the cache so recomputing an application is stable across runs.
type ChainEstimator struct {
	chain  completionChain
	cache  cache.Cache
	logger *logrus.Logger
}

// NewChainEstimator builds an estimator. cache may be nil.
func NewChainEstimator(chain completionChain, c cache.Cache, logger *logrus.Logger) *ChainEstimator {
	if logger == nil {
		logger = logrus.New()
	}
	return &ChainEstimator{chain: chain, cache: c, logger: logger}
}

var firstIntRe = regexp.MustCompile(`\d+`)

func (e *ChainEstimator) Estimate(ctx context.Context, jobDescription, resumeSummary string) int {
	if e.chain == nil || e.chain.Empty() {
		return NeutralRelevance
	}

	jd := truncate(jobDescription, maxPromptChars)
	rs := truncate(resumeSummary, maxPromptChars)

	key := fmt.Sprintf("relevance:%x", sha256.Sum256([]byte(jd+"\x00"+rs)))
	if e.cache != nil {
		var cached int
		if hit, err := e.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached
		}
	}

	out, err := e.chain.Complete(ctx, llm.Request{
		System:      relevancePrompt,
		User:        "JOB:\n" + jd + "\n\nRESUME:\n" + rs,
		Temperature: 0.0,
	})
	if err != nil {
		e.logger.WithError(err).Warn("relevance estimation failed, using neutral score")
		return NeutralRelevance
	}

	score := NeutralRelevance
	if m := firstIntRe.FindString(out); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			score = n
		}
	}

	if e.cache != nil {
		if err := e.cache.SetJSON(ctx, key, score, relevanceCacheTTL); err != nil {
			e.logger.WithError(err).Debug("failed to cache relevance score")
		}
	}
	return score
}

// truncate cuts on a rune boundary so the prompt stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var _ RelevanceEstimator = (*ChainEstimator)(nil)
