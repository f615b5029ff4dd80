package models

import "time"

type JobPosting struct {
	ID    string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title string `gorm:"column:title;type:text" json:"title"`

	Description string `gorm:"column:description;type:text" json:"description"`

	// Comma/newline-separated skill tokens, optionally with a natural
	// language minimum-experience clause ("5+ years experience").
	Requirements string `gorm:"column:requirements;type:text" json:"requirements"`

	Salary string `gorm:"column:salary;type:text" json:"salary"`

	PostedAt time.Time `gorm:"column:posted_at;type:timestamptz" json:"posted_at"`
}

func (JobPosting) TableName() string { return "job_postings" }
