package db

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ArticleTypeEssay       = "essay"
	ArticleTypeVisualEssay = "visual_essay"
	ArticleTypeDataEssay   = "data_essay"
	ArticleTypeTutorial    = "tutorial"
	ArticleTypeCaseStudy   = "case_study"
)

const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
	ArticleStatusArchived  = "archived"
)

// ArticleTypes 按后台展示顺序列出全部文章类型。
var ArticleTypes = []string{
	ArticleTypeEssay,
	ArticleTypeVisualEssay,
	ArticleTypeDataEssay,
	ArticleTypeTutorial,
	ArticleTypeCaseStudy,
}

// ArticleStatuses 列出全部文章状态。
var ArticleStatuses = []string{
	ArticleStatusDraft,
	ArticleStatusPublished,
	ArticleStatusArchived,
}

// Article 定义了文章/随笔模型，支持交互式内容（自定义 CSS/JS）
// Slug 创建后不再根据标题重新生成
// PublishedAt 仅在首次发布时写入一次
type Article struct {
	ID                    uint                        `gorm:"primaryKey" json:"id"`
	Title                 string                      `gorm:"size:200;not null" json:"title"`
	Slug                  string                      `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Type                  string                      `gorm:"size:20;default:essay;index" json:"type"`
	Status                string                      `gorm:"size:20;default:draft;index" json:"status"`
	Excerpt               string                      `gorm:"size:500" json:"excerpt"`
	Body                  string                      `gorm:"type:text" json:"body"`
	FeaturedImage         string                      `json:"featured_image,omitempty"`
	ImageCaption          string                      `gorm:"size:200" json:"image_caption,omitempty"`
	HasInteractiveContent bool                        `json:"has_interactive_content"`
	CustomCSS             string                      `gorm:"type:text" json:"custom_css,omitempty"`
	CustomJavaScript      string                      `gorm:"type:text" json:"custom_javascript,omitempty"`
	Tags                  datatypes.JSONSlice[string] `json:"tags"`
	ReadTime              int                         `gorm:"default:5" json:"read_time"`
	PublishedAt           *time.Time                  `gorm:"index" json:"published_at"`
	IsFeatured            bool                        `gorm:"index" json:"is_featured"`
	MetaDescription       string                      `gorm:"size:160" json:"meta_description,omitempty"`
	CreatedAt             time.Time                   `json:"created_at"`
	UpdatedAt             time.Time                   `json:"updated_at"`
}

// IsPublished 判断文章当前是否处于发布状态。
func (a Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}
