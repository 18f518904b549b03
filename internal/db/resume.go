package db

import "time"

// Resume 简历文件记录，任意时刻至多一份处于激活状态
type Resume struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	ResumeFile string    `gorm:"not null" json:"resume_file"`
	Summary    string    `gorm:"type:text" json:"summary,omitempty"`
	IsActive   bool      `gorm:"index" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
