package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/hiresphere/hiresphere/internal/providers/llm"
	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	out   string
	err   error
	empty bool
	calls int
}

func (f *fakeChain) Empty() bool { return f.empty }

func (f *fakeChain) Complete(_ context.Context, _ llm.Request) (string, error) {
	f.calls++
	return f.out, f.err
}

type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (m *mapCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *mapCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *mapCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestEstimate_NoProviderReturnsNeutral(t *testing.T) {
	e := NewChainEstimator(&fakeChain{empty: true}, nil, nil)
	require.Equal(t, NeutralRelevance, e.Estimate(context.Background(), "job", "resume"))
}

func TestEstimate_ExtractsFirstInteger(t *testing.T) {
	e := NewChainEstimator(&fakeChain{out: "Relevance Score: 85 out of 100"}, nil, nil)
	require.Equal(t, 85, e.Estimate(context.Background(), "job", "resume"))
}

func TestEstimate_BareInteger(t *testing.T) {
	e := NewChainEstimator(&fakeChain{out: "72"}, nil, nil)
	require.Equal(t, 72, e.Estimate(context.Background(), "job", "resume"))
}

func TestEstimate_ProviderErrorReturnsNeutral(t *testing.T) {
	e := NewChainEstimator(&fakeChain{err: errors.New("timeout")}, nil, nil)
	require.Equal(t, NeutralRelevance, e.Estimate(context.Background(), "job", "resume"))
}

func TestEstimate_NoDigitsReturnsNeutral(t *testing.T) {
	e := NewChainEstimator(&fakeChain{out: "excellent fit"}, nil, nil)
	require.Equal(t, NeutralRelevance, e.Estimate(context.Background(), "job", "resume"))
}

func TestEstimate_MemoizesPerInputPair(t *testing.T) {
	chain := &fakeChain{out: "64"}
	e := NewChainEstimator(chain, newMapCache(), nil)

	require.Equal(t, 64, e.Estimate(context.Background(), "job", "resume"))
	require.Equal(t, 64, e.Estimate(context.Background(), "job", "resume"))
	require.Equal(t, 1, chain.calls)

	// different inputs miss the cache
	require.Equal(t, 64, e.Estimate(context.Background(), "other job", "resume"))
	require.Equal(t, 2, chain.calls)
}

func TestTruncate_CutsOnRuneBoundary(t *testing.T) {
	require.Equal(t, "h", truncate("héllo", 2), "must not split the two-byte é")
	require.Equal(t, "hé", truncate("héllo", 3))
	require.Equal(t, "héllo", truncate("héllo", 100))

	long := strings.Repeat("a", maxPromptChars-1) + "日本語"
	out := truncate(long, maxPromptChars)
	require.True(t, utf8.ValidString(out))
	require.LessOrEqual(t, len(out), maxPromptChars)
}
