package handler

import (
	"strings"

	"github.com/portfolio/internal/logger"
	"github.com/portfolio/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db            *gorm.DB
	articles      *service.ArticleService
	galleries     *service.GalleryService
	experiences   *service.ExperienceService
	profile       *service.ProfileService
	activities    *service.ActivityService
	resumes       *service.ResumeService
	subscriptions *service.SubscriptionService
	contacts      *service.ContactService
	digest        *service.DigestService
	log           logger.Logger
	uploadDir     string
	uploadURL     string
}

// NewAPI constructs a handler set with shared services. Uploaded media is
// stored below uploadDir and served under uploadURL.
func NewAPI(gdb *gorm.DB, log logger.Logger, uploadDir, uploadURL string) *API {
	if log == nil {
		log = logger.NewNop()
	}

	articles := service.NewArticleService(gdb)
	experiences := service.NewExperienceService(gdb)
	profile := service.NewProfileService(gdb)
	activities := service.NewActivityService(gdb)
	resumes := service.NewResumeService(gdb)

	return &API{
		db:            gdb,
		articles:      articles,
		galleries:     service.NewGalleryService(gdb, service.NewFileThumbnailDeriver(uploadDir), log),
		experiences:   experiences,
		profile:       profile,
		activities:    activities,
		resumes:       resumes,
		subscriptions: service.NewSubscriptionService(gdb),
		contacts:      service.NewContactService(gdb),
		digest:        service.NewDigestService(articles, experiences, profile, activities, resumes),
		log:           log,
		uploadDir:     uploadDir,
		uploadURL:     strings.TrimRight(uploadURL, "/"),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// mediaURL 将相对上传目录的路径转换为公开访问地址
func (a *API) mediaURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return a.uploadURL + "/" + strings.TrimLeft(path, "/")
}
