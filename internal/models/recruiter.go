package models

import "time"

type Recruiter struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email    string `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	FullName string `gorm:"column:full_name;type:text" json:"full_name"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Recruiter) TableName() string { return "recruiters" }
