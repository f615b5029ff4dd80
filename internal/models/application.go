package models

import (
	"time"

	"github.com/lib/pq"
)

type Application struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CandidateID string `gorm:"column:candidate_id;type:uuid;uniqueIndex:idx_applications_candidate_job" json:"candidate_id"`
	JobID       string `gorm:"column:job_id;type:uuid;uniqueIndex:idx_applications_candidate_job" json:"job_id"`

	Status Status `gorm:"column:status;type:text" json:"status"`

	// Compatibility score, 0-100 with one decimal place. Written only by
	// the scoring pass.
	Score float64 `gorm:"column:score;type:numeric(5,1)" json:"score"`

	// Persisted factor breakdown from the last scoring pass.
	SkillsScore     float64        `gorm:"column:skills_score;type:numeric(5,1)" json:"skills_score"`
	ExperienceScore float64        `gorm:"column:experience_score;type:numeric(5,1)" json:"experience_score"`
	EducationScore  float64        `gorm:"column:education_score;type:numeric(5,1)" json:"education_score"`
	AIScore         float64        `gorm:"column:ai_score;type:numeric(5,1)" json:"ai_score"`
	MatchingSkills  pq.StringArray `gorm:"column:matching_skills;type:text[]" json:"matching_skills"`

	AppliedAt time.Time `gorm:"column:applied_at;type:timestamptz" json:"applied_at"`
	ScoredAt  time.Time `gorm:"column:scored_at;type:timestamptz" json:"scored_at"`

	Candidate *Candidate  `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Job       *JobPosting `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

func (Application) TableName() string { return "applications" }
