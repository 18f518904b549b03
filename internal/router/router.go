package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/handler"
	"github.com/portfolio/internal/logger"
	"gorm.io/gorm"
)

const sessionName = "portfolio_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig, log logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID(), handler.AccessLog(log))

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.SiteBaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 上传文件：固定的 /uploads 与可配置的 URL 前缀指向同一目录
	uploadURL := strings.TrimRight(cfg.UploadURLPath, "/")
	r.Static("/uploads", cfg.UploadDir)
	if uploadURL != "" && uploadURL != "/uploads" {
		r.Static(uploadURL, cfg.UploadDir)
	}

	api := handler.NewAPI(gdb, log, cfg.UploadDir, uploadURL)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// 公开页面
	r.GET("/", api.ShowHome)
	r.GET("/essays", api.ListEssays)
	r.GET("/essays/:slug", api.ShowEssay)
	r.GET("/projects", api.ListProjects)
	r.GET("/projects/:id", api.ShowProject)
	r.GET("/gallery", api.ShowGallery)
	r.GET("/about", api.ShowAbout)
	r.GET("/resume", api.ShowResume)
	r.POST("/newsletter/subscribe", api.Subscribe)
	r.POST("/newsletter/unsubscribe", api.Unsubscribe)
	r.POST("/contact", api.SubmitContact)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		// 需要认证的后台 API
		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/me", api.Me)
			auth.GET("/dashboard", api.Dashboard)
			auth.GET("/options", api.FormOptions)

			auth.GET("/articles", api.ListArticles)
			auth.POST("/articles", api.CreateArticle)
			auth.POST("/articles/actions", api.ArticleActions)
			auth.POST("/articles/preview", api.PreviewArticle)
			auth.GET("/articles/:id", api.GetArticle)
			auth.PUT("/articles/:id", api.UpdateArticle)
			auth.DELETE("/articles/:id", api.DeleteArticle)

			auth.GET("/gallery", api.ListGalleryItems)
			auth.POST("/gallery", api.CreateGalleryItem)
			auth.GET("/gallery/:id", api.GetGalleryItem)
			auth.PUT("/gallery/:id", api.UpdateGalleryItem)
			auth.DELETE("/gallery/:id", api.DeleteGalleryItem)

			auth.GET("/experiences", api.ListExperiences)
			auth.POST("/experiences", api.CreateExperience)
			auth.GET("/experiences/:id", api.GetExperience)
			auth.PUT("/experiences/:id", api.UpdateExperience)
			auth.DELETE("/experiences/:id", api.DeleteExperience)

			auth.GET("/skills", api.ListSkills)
			auth.POST("/skills", api.CreateSkill)
			auth.PUT("/skills/:id", api.UpdateSkill)
			auth.DELETE("/skills/:id", api.DeleteSkill)

			auth.GET("/now", api.ListNowItems)
			auth.POST("/now", api.CreateNowItem)
			auth.PUT("/now/:id", api.UpdateNowItem)
			auth.DELETE("/now/:id", api.DeleteNowItem)

			auth.GET("/activities", api.ListActivities)
			auth.POST("/activities", api.CreateActivity)
			auth.PUT("/activities/:id", api.UpdateActivity)
			auth.DELETE("/activities/:id", api.DeleteActivity)

			auth.GET("/resumes", api.ListResumes)
			auth.POST("/resumes", api.CreateResume)
			auth.PUT("/resumes/:id", api.UpdateResume)
			auth.POST("/resumes/:id/activate", api.ActivateResume)
			auth.DELETE("/resumes/:id", api.DeleteResume)

			auth.GET("/messages", api.ListMessages)
			auth.POST("/messages/actions", api.MessageActions)
			auth.GET("/messages/:id", api.GetMessage)
			auth.DELETE("/messages/:id", api.DeleteMessage)

			auth.GET("/subscribers", api.ListSubscribers)
			auth.DELETE("/subscribers/:id", api.DeleteSubscriber)

			auth.POST("/uploads/:kind", api.UploadFile)
		}
	}

	return r
}
