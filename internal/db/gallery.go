package db

import (
	"time"

	"gorm.io/datatypes"
)

const (
	GalleryTypePhoto   = "photo"
	GalleryTypeDesign  = "design"
	GalleryTypeArt     = "art"
	GalleryTypeProject = "project"
	GalleryTypeOther   = "other"
)

// GalleryTypes 列出全部作品类型。
var GalleryTypes = []string{
	GalleryTypePhoto,
	GalleryTypeDesign,
	GalleryTypeArt,
	GalleryTypeProject,
	GalleryTypeOther,
}

// GalleryItem 定义作品集条目模型
// Image/Thumbnail 保存相对上传目录的路径，缩略图缺失时由服务层派生
type GalleryItem struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Title        string                      `gorm:"size:200;not null" json:"title"`
	Description  string                      `gorm:"type:text" json:"description"`
	Image        string                      `gorm:"not null" json:"image"`
	Thumbnail    string                      `json:"thumbnail"`
	GalleryType  string                      `gorm:"size:20;default:photo;index" json:"gallery_type"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	ExternalLink string                      `json:"external_link,omitempty"`
	SortOrder    int                         `gorm:"default:0" json:"order"`
	IsVisible    bool                        `json:"is_visible"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}
