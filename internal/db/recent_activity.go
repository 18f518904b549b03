package db

import "time"

const (
	ActivityTypeArticle     = "article"
	ActivityTypeProject     = "project"
	ActivityTypeTalk        = "talk"
	ActivityTypeAchievement = "achievement"
	ActivityTypeLearning    = "learning"
	ActivityTypeOther       = "other"
)

// ActivityTypes 列出首页"最近动态"的全部类型。
var ActivityTypes = []string{
	ActivityTypeArticle,
	ActivityTypeProject,
	ActivityTypeTalk,
	ActivityTypeAchievement,
	ActivityTypeLearning,
	ActivityTypeOther,
}

// RecentActivity 首页"最近动态"条目
type RecentActivity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ActivityType string    `gorm:"size:20;not null;index" json:"activity_type"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Link         string    `json:"link,omitempty"`
	Date         time.Time `gorm:"index" json:"date"`
	SortOrder    int       `gorm:"default:0" json:"order"`
	IsVisible    bool      `json:"is_visible"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定自定义表名，避免自动复数化导致的歧义。
func (RecentActivity) TableName() string {
	return "recent_activities"
}
