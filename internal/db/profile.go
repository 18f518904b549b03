package db

import "time"

const (
	SkillCategoryProduct     = "product"
	SkillCategoryEngineering = "engineering"
	SkillCategoryLeadership  = "leadership"
	SkillCategoryDesign      = "design"
)

// SkillCategories 按展示顺序列出技能分类。
var SkillCategories = []string{
	SkillCategoryProduct,
	SkillCategoryEngineering,
	SkillCategoryLeadership,
	SkillCategoryDesign,
}

// Skill 定义技能条目
type Skill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Category  string    `gorm:"size:20;not null;index" json:"category"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	SortOrder int       `gorm:"default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NowItem 描述"我最近在做什么"条目，Icon 通常是 emoji
type NowItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Icon        string    `gorm:"size:50" json:"icon"`
	Description string    `gorm:"type:text" json:"description"`
	Link        string    `json:"link,omitempty"`
	SortOrder   int       `gorm:"default:0" json:"order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
