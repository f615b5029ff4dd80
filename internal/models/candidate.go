package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ResumeAttributes is the structured blob derived from an uploaded resume.
// It is the authoritative extraction result; the flat Skills/Experience/
// Education columns on Candidate are a denormalized projection of it.
type ResumeAttributes struct {
	Skills     []string `json:"skills"`
	Experience int      `json:"experience"`
	Education  string   `json:"education"`
	Summary    string   `json:"summary,omitempty"`
}

type Candidate struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email    string `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	FullName string `gorm:"column:full_name;type:text" json:"full_name"`

	// Denormalized fields kept for legacy display, re-synced on every
	// successful extraction.
	Skills     string `gorm:"column:skills;type:text" json:"skills"`
	Experience int    `gorm:"column:experience;type:integer" json:"experience"`
	Education  string `gorm:"column:education;type:text" json:"education"`

	ResumePath string `gorm:"column:resume_path;type:text" json:"resume_path"`

	// JSONB (overwritten, never merged, on re-extraction)
	ParsedData datatypes.JSON `gorm:"column:parsed_data;type:jsonb" json:"parsed_data"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Candidate) TableName() string { return "candidates" }

// Attributes decodes the jsonb blob. Returns a zero value when the blob is
// empty (no extraction has run yet) or undecodable.
func (c *Candidate) Attributes() ResumeAttributes {
	var attrs ResumeAttributes
	if len(c.ParsedData) == 0 {
		return attrs
	}
	_ = json.Unmarshal(c.ParsedData, &attrs)
	return attrs
}
