package scoring

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hiresphere/hiresphere/internal/models"
	"github.com/sirupsen/logrus"
)

// Factor weights. They sum to 100.
const (
	skillsWeight     = 40.0
	experienceWeight = 30.0
	educationWeight  = 15.0
	relevanceWeight  = 15.0

	// Flat bonus when the job states no minimum but the candidate has any
	// experience at all.
	experienceBonus = 10.0
)

// Breakdown reports each factor's weighted contribution.
type Breakdown struct {
	SkillsScore     float64  `json:"skills_score"`
	MatchingSkills  []string `json:"matching_skills"`
	ExperienceScore float64  `json:"experience_score"`
	EducationScore  float64  `json:"education_score"`
	AIScore         float64  `json:"ai_score"`
	TotalScore      float64  `json:"total_score"`
}

// RelevanceEstimator supplies the raw 0-100 AI relevance factor. It must
// not fail; implementations degrade to a neutral midpoint.
type RelevanceEstimator interface {
	Estimate(ctx context.Context, jobDescription, resumeSummary string) int
}

// Engine computes compatibility scores. Pure given its inputs plus the
// estimator's responses: it never touches storage.
type Engine struct {
	relevance RelevanceEstimator
	logger    *logrus.Logger
}

func NewEngine(relevance RelevanceEstimator, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{relevance: relevance, logger: logger}
}

var minExpRe = regexp.MustCompile(`(?i)(\d+)\+?\s*years?`)

// Compute scores a candidate against a job. Total is 0-100 rounded to one
// decimal place.
func (e *Engine) Compute(ctx context.Context, candidate *models.Candidate, job *models.JobPosting) Breakdown {
	var b Breakdown

	// 1. Skills (40)
	jobSkills := TokenizeSkills(job.Requirements)
	candSkills := TokenizeSkills(candidate.Skills)

	// a "5+ years" clause in the requirements belongs to the experience
	// factor, not the skill set
	for s := range jobSkills {
		if minExpRe.MatchString(s) {
			delete(jobSkills, s)
		}
	}

	matches := []string{}
	var skillsScore float64
	if len(jobSkills) > 0 {
		for s := range jobSkills {
			if _, ok := candSkills[s]; ok {
				matches = append(matches, s)
			}
		}
		sort.Strings(matches)
		skillsScore = float64(len(matches)) / float64(len(jobSkills)) * skillsWeight
	}
	b.SkillsScore = round1(skillsScore)
	b.MatchingSkills = matches

	// 2. Experience (30)
	minExp := 0
	if m := minExpRe.FindStringSubmatch(job.Requirements); m != nil {
		minExp, _ = strconv.Atoi(m[1])
	}
	candExp := candidate.Experience

	var expScore float64
	switch {
	case minExp > 0:
		ratio := math.Min(float64(candExp)/float64(minExp), 1.5)
		expScore = math.Min(ratio, 1.0) * experienceWeight
	case candExp > 0:
		expScore = experienceBonus
	}
	b.ExperienceScore = round1(expScore)

	// 3. Education (15)
	candEdu := candidate.Attributes().Education
	if candEdu == "" {
		candEdu = candidate.Education
	}
	if candEdu == "" {
		candEdu = "None"
	}
	eduScore := float64(educationMatch(candEdu, job.Requirements)) * educationWeight / 100.0
	b.EducationScore = round1(eduScore)

	// 4. AI relevance (15)
	summary := fmt.Sprintf("Skills: %s. Experience: %d years. Education: %s.",
		strings.ToLower(candidate.Skills), candExp, candEdu)
	aiRaw := clamp(e.relevance.Estimate(ctx, job.Description, summary), 0, 100)
	aiScore := float64(aiRaw) * relevanceWeight / 100.0
	b.AIScore = round1(aiScore)

	b.TotalScore = round1(skillsScore + expScore + eduScore + aiScore)

	e.logger.WithFields(logrus.Fields{
		"candidate_id": candidate.ID,
		"job_id":       job.ID,
		"skills":       b.SkillsScore,
		"experience":   b.ExperienceScore,
		"education":    b.EducationScore,
		"ai":           b.AIScore,
		"total":        b.TotalScore,
	}).Debug("computed compatibility score")

	return b
}

// TokenizeSkills splits comma/newline-separated skill text into a
// lower-cased set, dropping empties.
func TokenizeSkills(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range splitSkillsRe.Split(strings.ToLower(text), -1) {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out[tok] = struct{}{}
		}
	}
	return out
}

var splitSkillsRe = regexp.MustCompile(`[,\n\r]+`)

// educationRanks orders degree keywords by substring containment.
var educationRanks = map[string]int{
	"phd":         5,
	"doctorate":   5,
	"master":      4,
	"mba":         4,
	"bachelor":    3,
	"bs":          3,
	"ba":          3,
	"associate":   2,
	"diploma":     1,
	"high school": 0,
	"none":        0,
}

// educationMatch returns the raw 0-100 education factor. A job text with no
// recognizable education keyword means "no requirement" and earns full
// credit. Note the deliberate asymmetry with the skills factor, which
// awards zero when the job lists no skills.
func educationMatch(candidateEdu, jobReq string) int {
	candLower := strings.ToLower(candidateEdu)
	jobLower := strings.ToLower(jobReq)

	candRank := 0
	for key, rank := range educationRanks {
		if strings.Contains(candLower, key) && rank > candRank {
			candRank = rank
		}
	}

	jobRank := 3 // assume a Bachelor's bar when a keyword is present but lower-ranked
	foundReq := false
	for key, rank := range educationRanks {
		if strings.Contains(jobLower, key) {
			foundReq = true
			if rank > jobRank {
				jobRank = rank
			}
		}
	}
	if !foundReq {
		return 100
	}

	switch {
	case candRank >= jobRank:
		return 100
	case candRank == jobRank-1:
		return 50
	default:
		return 0
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
