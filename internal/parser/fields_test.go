package parser

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hiresphere/hiresphere/internal/providers/llm"
	"github.com/stretchr/testify/require"
)

type stubChain struct {
	out   string
	err   error
	empty bool
}

func (s *stubChain) Empty() bool { return s.empty }

func (s *stubChain) Complete(_ context.Context, _ llm.Request) (string, error) {
	return s.out, s.err
}

func TestExtract_NoProviderFallsBackToKeywordScan(t *testing.T) {
	e := NewFieldExtractor(&stubChain{empty: true}, nil)

	attrs := e.Extract(context.Background(), "Senior Python Developer with Django and AWS")

	require.Equal(t, 7, attrs.Experience)
	require.Contains(t, attrs.Skills, "Python")
	require.Contains(t, attrs.Skills, "Django")
	require.Contains(t, attrs.Skills, "Aws")
	require.Equal(t, "Unknown (Offline Mode)", attrs.Education)
}

func TestExtract_KeywordScanOnlyReturnsVocabulary(t *testing.T) {
	attrs := ScanKeywords("Experienced Cobol and Fortran engineer")

	require.Empty(t, attrs.Skills)
	require.Equal(t, 2, attrs.Experience)
}

func TestExtract_ProviderJSON(t *testing.T) {
	chain := &stubChain{out: `{"skills": ["Python", "Go"], "experience": 4, "education": "BS CS"}`}
	e := NewFieldExtractor(chain, nil)

	attrs := e.Extract(context.Background(), "irrelevant")

	require.Equal(t, []string{"Python", "Go"}, attrs.Skills)
	require.Equal(t, 4, attrs.Experience)
	require.Equal(t, "BS CS", attrs.Education)
}

func TestExtract_ProviderJSONWithCodeFences(t *testing.T) {
	cases := []string{
		"```json\n{\"skills\": [\"Rust\"], \"experience\": 3, \"education\": \"PhD\"}\n```",
		"```\n{\"skills\": [\"Rust\"], \"experience\": 3, \"education\": \"PhD\"}\n```",
	}
	for _, out := range cases {
		e := NewFieldExtractor(&stubChain{out: out}, nil)
		attrs := e.Extract(context.Background(), "text")
		require.Equal(t, []string{"Rust"}, attrs.Skills)
		require.Equal(t, "PhD", attrs.Education)
	}
}

func TestExtract_ProviderErrorFallsBack(t *testing.T) {
	e := NewFieldExtractor(&stubChain{err: errors.New("network down")}, nil)

	attrs := e.Extract(context.Background(), "Lead engineer, kubernetes and sql")

	require.Equal(t, 7, attrs.Experience)
	require.Contains(t, attrs.Skills, "Kubernetes")
	require.Equal(t, "Unknown (Offline Mode)", attrs.Education)
}

func TestExtract_MalformedResponseFallsBack(t *testing.T) {
	for _, out := range []string{
		"not json at all",
		`{"experience": 2, "education": "BS"}`,             // missing skills
		`{"skills": ["Python"], "experience": 2}`,          // missing education
		"```json\nstill not json\n```",
	} {
		e := NewFieldExtractor(&stubChain{out: out}, nil)
		attrs := e.Extract(context.Background(), "python dev")
		require.Equal(t, "Unknown (Offline Mode)", attrs.Education, "response %q should fall back", out)
	}
}

func TestExtract_StringExperienceNormalized(t *testing.T) {
	chain := &stubChain{out: `{"skills": [], "experience": "4 years", "education": "MSc"}`}
	e := NewFieldExtractor(chain, nil)

	attrs := e.Extract(context.Background(), "text")

	require.Equal(t, 4, attrs.Experience)
}

func TestNormalizeExperience(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`5`, 5},
		{`"2 years"`, 2},
		{`"over 10 years of work"`, 10},
		{`"none"`, 0},
		{`-3`, 0},
		{`null`, 0},
		{`{"nested": true}`, 0},
	}
	for _, c := range cases {
		got := NormalizeExperience(json.RawMessage(c.raw))
		require.Equal(t, c.want, got, "raw=%s", c.raw)
	}
}

func TestNormalizeExperience_Empty(t *testing.T) {
	require.Equal(t, 0, NormalizeExperience(nil))
}
