package parser

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/hiresphere/hiresphere/internal/models"
	"github.com/hiresphere/hiresphere/internal/providers/llm"
	"github.com/sirupsen/logrus"
)

const extractPrompt = `You are a resume parser. Extract skills (list of strings), experience (years as integer), and education (highest degree as string) from the text. Return VALID JSON only. Do not include markdown formatting. Example: {"skills": ["Python", "React"], "experience": 4, "education": "BS CS"}`

// fallback vocabulary for the offline keyword scan
var keywordVocabulary = []string{
	"python", "django", "flask", "react", "javascript", "typescript", "node", "aws",
	"docker", "kubernetes", "sql", "postgresql", "java", "spring", "c++", "go", "html", "css",
}

// completionChain is the slice of llm.Chain the extractor needs; narrowed so
// tests can stub it.
type completionChain interface {
	Empty() bool
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// FieldExtractor turns flat resume text into structured attributes. It
// cannot fail: on missing providers, provider errors, or malformed
// responses it falls back to a deterministic keyword scan.
type FieldExtractor struct {
	chain  completionChain
	logger *logrus.Logger
}

func NewFieldExtractor(chain completionChain, logger *logrus.Logger) *FieldExtractor {
	if logger == nil {
		logger = logrus.New()
	}
	return &FieldExtractor{chain: chain, logger: logger}
}

func (e *FieldExtractor) Extract(ctx context.Context, text string) models.ResumeAttributes {
	if e.chain == nil || e.chain.Empty() {
		return ScanKeywords(text)
	}

	out, err := e.chain.Complete(ctx, llm.Request{
		System:      extractPrompt,
		User:        text,
		Temperature: 0.1,
	})
	if err != nil {
		e.logger.WithError(err).Warn("field extraction via provider failed, falling back")
		return ScanKeywords(text)
	}

	attrs, err := parseAttributes(out)
	if err != nil {
		e.logger.WithError(err).Warn("provider returned malformed attributes, falling back")
		return ScanKeywords(text)
	}
	return attrs
}

// rawAttributes is the strict provider response schema. skills and education
// are required; experience may arrive as an integer or a phrase like
// "4 years".
type rawAttributes struct {
	Skills     *[]string       `json:"skills"`
	Experience json.RawMessage `json:"experience"`
	Education  *string         `json:"education"`
	Summary    string          `json:"summary"`
}

func parseAttributes(response string) (models.ResumeAttributes, error) {
	var attrs models.ResumeAttributes

	payload := stripFences(response)

	var raw rawAttributes
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return attrs, err
	}
	if raw.Skills == nil {
		return attrs, errors.New("missing required field: skills")
	}
	if raw.Education == nil {
		return attrs, errors.New("missing required field: education")
	}

	attrs.Skills = *raw.Skills
	attrs.Education = *raw.Education
	attrs.Experience = NormalizeExperience(raw.Experience)
	attrs.Summary = raw.Summary
	return attrs, nil
}

// stripFences removes surrounding markdown code-fence markers that some
// providers wrap JSON in despite instructions.
func stripFences(s string) string {
	if strings.Contains(s, "```json") {
		parts := strings.SplitN(s, "```json", 2)
		s = strings.SplitN(parts[1], "```", 2)[0]
	} else if strings.Contains(s, "```") {
		parts := strings.Split(s, "```")
		if len(parts) >= 2 {
			s = parts[1]
		}
	}
	return strings.TrimSpace(s)
}

var digitsRe = regexp.MustCompile(`\d+`)

// NormalizeExperience coerces the experience field to a non-negative integer.
// Accepts a bare integer or a string containing one ("2 years"); anything
// else becomes 0.
func NormalizeExperience(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if m := digitsRe.FindString(s); m != "" {
			var parsed int
			if err := json.Unmarshal([]byte(m), &parsed); err == nil {
				return parsed
			}
		}
	}
	return 0
}

// ScanKeywords is the deterministic last-resort extraction: a fixed
// vocabulary scan plus a crude seniority heuristic. Not a parser; offline
// mode only.
func ScanKeywords(text string) models.ResumeAttributes {
	lower := strings.ToLower(text)

	skills := make([]string, 0, len(keywordVocabulary))
	for _, kw := range keywordVocabulary {
		if strings.Contains(lower, kw) {
			skills = append(skills, capitalize(kw))
		}
	}

	experience := 2
	if strings.Contains(lower, "senior") || strings.Contains(lower, "lead") {
		experience = 7
	}

	return models.ResumeAttributes{
		Skills:     skills,
		Experience: experience,
		Education:  "Unknown (Offline Mode)",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
