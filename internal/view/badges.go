package view

import "github.com/portfolio/internal/db"

const (
	colorBlue   = "#3b82f6"
	colorViolet = "#8b5cf6"
	colorGreen  = "#10b981"
	colorAmber  = "#f59e0b"
	colorRed    = "#ef4444"
	colorPink   = "#ec4899"
	colorGray   = "#6b7280"
	colorIndigo = "#2563eb"
)

// Badge 后台列表中展示的标签与颜色
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Option describes a selectable enum value for admin forms.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	articleTypeBadges = map[string]Badge{
		db.ArticleTypeEssay:       {Label: "Essay", Color: colorBlue},
		db.ArticleTypeVisualEssay: {Label: "Visual Essay", Color: colorViolet},
		db.ArticleTypeDataEssay:   {Label: "Data Essay", Color: colorGreen},
		db.ArticleTypeTutorial:    {Label: "Tutorial", Color: colorAmber},
		db.ArticleTypeCaseStudy:   {Label: "Case Study", Color: colorRed},
	}
	articleStatusBadges = map[string]Badge{
		db.ArticleStatusDraft:     {Label: "Draft", Color: colorGray},
		db.ArticleStatusPublished: {Label: "Published", Color: colorGreen},
		db.ArticleStatusArchived:  {Label: "Archived", Color: colorRed},
	}
	activityBadges = map[string]Badge{
		db.ActivityTypeArticle:     {Label: "Published Article", Color: colorBlue},
		db.ActivityTypeProject:     {Label: "Shipped Project", Color: colorGreen},
		db.ActivityTypeTalk:        {Label: "Gave Talk", Color: colorViolet},
		db.ActivityTypeAchievement: {Label: "Achievement", Color: colorAmber},
		db.ActivityTypeLearning:    {Label: "Learning", Color: colorPink},
		db.ActivityTypeOther:       {Label: "Other", Color: colorGray},
	}
	messageBadges = map[bool]Badge{
		true:  {Label: "Read", Color: colorGreen},
		false: {Label: "New", Color: colorIndigo},
	}

	// 仅需要文字的枚举
	galleryTypeLabels = map[string]string{
		db.GalleryTypePhoto:   "Photography",
		db.GalleryTypeDesign:  "Design Work",
		db.GalleryTypeArt:     "Art",
		db.GalleryTypeProject: "Project Screenshot",
		db.GalleryTypeOther:   "Other",
	}
	experienceTypeLabels = map[string]string{
		db.ExperienceTypeWork:      "Work Experience",
		db.ExperienceTypeProject:   "Project",
		db.ExperienceTypeEducation: "Education",
		db.ExperienceTypeAward:     "Award",
	}
	skillCategoryLabels = map[string]string{
		db.SkillCategoryProduct:     "Technical Product Management",
		db.SkillCategoryEngineering: "Engineering & Data",
		db.SkillCategoryLeadership:  "Leadership",
		db.SkillCategoryDesign:      "Design & Creativity",
	}
)

func lookupBadge(table map[string]Badge, value string) Badge {
	if badge, ok := table[value]; ok {
		return badge
	}
	return Badge{Label: value, Color: colorGray}
}

func lookupLabel(table map[string]string, value string) string {
	if label, ok := table[value]; ok {
		return label
	}
	return value
}

// ArticleTypeBadge returns the badge for an article type.
func ArticleTypeBadge(articleType string) Badge {
	return lookupBadge(articleTypeBadges, articleType)
}

// ArticleStatusBadge returns the badge for an article status.
func ArticleStatusBadge(status string) Badge {
	return lookupBadge(articleStatusBadges, status)
}

// ActivityBadge returns the badge for a recent activity type.
func ActivityBadge(activityType string) Badge {
	return lookupBadge(activityBadges, activityType)
}

// MessageBadge returns the read/new badge of a contact message.
func MessageBadge(isRead bool) Badge {
	return messageBadges[isRead]
}

// GalleryTypeLabel returns the display label of a gallery type.
func GalleryTypeLabel(galleryType string) string {
	return lookupLabel(galleryTypeLabels, galleryType)
}

// ExperienceTypeLabel returns the display label of an experience type.
func ExperienceTypeLabel(experienceType string) string {
	return lookupLabel(experienceTypeLabels, experienceType)
}

// SkillCategoryLabel returns the display label of a skill category.
func SkillCategoryLabel(category string) string {
	return lookupLabel(skillCategoryLabels, category)
}

// FormOptions 按固定顺序返回后台表单可选的枚举值
func FormOptions() map[string][]Option {
	return map[string][]Option{
		"article_types":    badgeOptions(db.ArticleTypes, articleTypeBadges),
		"article_statuses": badgeOptions(db.ArticleStatuses, articleStatusBadges),
		"activity_types":   badgeOptions(db.ActivityTypes, activityBadges),
		"gallery_types":    labelOptions(db.GalleryTypes, galleryTypeLabels),
		"experience_types": labelOptions(db.ExperienceTypes, experienceTypeLabels),
		"skill_categories": labelOptions(db.SkillCategories, skillCategoryLabels),
	}
}

func badgeOptions(values []string, table map[string]Badge) []Option {
	options := make([]Option, 0, len(values))
	for _, value := range values {
		options = append(options, Option{Value: value, Label: lookupBadge(table, value).Label})
	}
	return options
}

func labelOptions(values []string, table map[string]string) []Option {
	options := make([]Option, 0, len(values))
	for _, value := range values {
		options = append(options, Option{Value: value, Label: lookupLabel(table, value)})
	}
	return options
}
