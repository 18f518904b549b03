package db

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ExperienceTypeWork      = "work"
	ExperienceTypeProject   = "project"
	ExperienceTypeEducation = "education"
	ExperienceTypeAward     = "award"
)

// ExperienceTypes 列出全部经历类型。
var ExperienceTypes = []string{
	ExperienceTypeWork,
	ExperienceTypeProject,
	ExperienceTypeEducation,
	ExperienceTypeAward,
}

// Experience 记录工作、项目、教育与获奖经历
// EndDate 为空表示仍在进行中，不强制校验日期区间
type Experience struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Type         string                      `gorm:"size:20;not null;index" json:"type"`
	Title        string                      `gorm:"size:200;not null" json:"title"`
	Organization string                      `gorm:"size:200" json:"organization"`
	Location     string                      `gorm:"size:200" json:"location,omitempty"`
	StartDate    time.Time                   `gorm:"index" json:"start_date"`
	EndDate      *time.Time                  `json:"end_date"`
	IsCurrent    bool                        `json:"is_current"`
	Description  string                      `gorm:"type:text" json:"description"`
	Achievements datatypes.JSONSlice[string] `json:"achievements"`
	TechStack    datatypes.JSONSlice[string] `json:"tech_stack"`
	Link         string                      `json:"link,omitempty"`
	SortOrder    int                         `gorm:"default:0" json:"order"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}
