package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/logger"
	"github.com/portfolio/internal/markdown"
	"github.com/portfolio/internal/service"
)

const relatedLimit = 3

type publicArticleView struct {
	db.Article
	FeaturedImageURL string `json:"featured_image_url,omitempty"`
	URL              string `json:"url"`
}

type projectView struct {
	db.Experience
	URL string `json:"url"`
}

func (a *API) publicArticles(articles []db.Article) []publicArticleView {
	views := make([]publicArticleView, 0, len(articles))
	for _, article := range articles {
		views = append(views, publicArticleView{
			Article:          article,
			FeaturedImageURL: a.mediaURL(article.FeaturedImage),
			URL:              "/essays/" + article.Slug,
		})
	}
	return views
}

func projectViews(projects []db.Experience) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, project := range projects {
		views = append(views, projectView{Experience: project, URL: "/projects/" + strconv.FormatUint(uint64(project.ID), 10)})
	}
	return views
}

// popFlashes 读取并清除会话中的提示消息，保存失败只记录日志，消息照常返回
func (a *API) popFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return []string{}
	}
	if err := session.Save(); err != nil {
		a.log.Warn("failed to save session after reading flashes",
			logger.String("path", c.Request.URL.Path),
			logger.String("request_id", requestID(c)),
			logger.Error(err),
		)
	}

	messages := make([]string, 0, len(raw))
	for _, item := range raw {
		if message, ok := item.(string); ok {
			messages = append(messages, message)
		}
	}
	return messages
}

// ShowHome 首页摘要
func (a *API) ShowHome(c *gin.Context) {
	digest, err := a.digest.Homepage()
	if err != nil {
		a.respondServiceError(c, err, "failed to load homepage")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"now_items":         digest.NowItems,
		"projects":          projectViews(digest.Projects),
		"experiences":       experienceViews(digest.Experiences),
		"articles":          a.publicArticles(digest.Articles),
		"featured_articles": a.publicArticles(digest.FeaturedArticles),
		"recent_activities": activityViews(digest.RecentActivities),
		"messages":          a.popFlashes(c),
	})
}

// ListEssays 已发布文章列表，支持 ?type= 与 ?q=
func (a *API) ListEssays(c *gin.Context) {
	filter := service.PublishedFilter{Type: c.Query("type"), Query: c.Query("q")}
	articles, err := a.articles.ListPublished(filter)
	if err != nil {
		a.respondServiceError(c, err, "failed to list essays")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": a.publicArticles(articles),
		"type":  filter.Type,
		"query": filter.Query,
	})
}

// ShowEssay 文章详情，包含渲染后的正文与相关文章
func (a *API) ShowEssay(c *gin.Context) {
	article, err := a.articles.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		a.respondServiceError(c, err, "failed to load essay")
		return
	}

	body, err := markdown.Render(article.Body)
	if err != nil {
		a.respondServiceError(c, err, "failed to render essay")
		return
	}

	related, err := a.articles.Related(article, relatedLimit)
	if err != nil {
		a.respondServiceError(c, err, "failed to load related essays")
		return
	}

	payload := gin.H{
		"article": a.publicArticles([]db.Article{*article})[0],
		"html":    body,
		"related": a.publicArticles(related),
	}
	if article.HasInteractiveContent {
		payload["custom_css"] = article.CustomCSS
		payload["custom_javascript"] = article.CustomJavaScript
	}
	c.JSON(http.StatusOK, payload)
}

// ListProjects 项目列表，?category= 按技术栈过滤
func (a *API) ListProjects(c *gin.Context) {
	category := c.Query("category")
	projects, err := a.experiences.FilterProjectsByCategory(category)
	if err != nil {
		a.respondServiceError(c, err, "failed to list projects")
		return
	}
	if strings.TrimSpace(category) == "" {
		category = service.CategoryAll
	}

	c.JSON(http.StatusOK, gin.H{"items": projectViews(projects), "category": category})
}

// ShowProject 项目详情与相关项目
func (a *API) ShowProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	project, err := a.experiences.GetProject(id)
	if err != nil {
		a.respondServiceError(c, err, "failed to load project")
		return
	}

	related, err := a.experiences.RelatedProjects(project, relatedLimit)
	if err != nil {
		a.respondServiceError(c, err, "failed to load related projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": projectViews([]db.Experience{*project})[0],
		"related": projectViews(related),
	})
}

// ShowGallery 可见作品，?type= 过滤
func (a *API) ShowGallery(c *gin.Context) {
	items, err := a.galleries.ListVisible(c.Query("type"))
	if err != nil {
		a.respondServiceError(c, err, "failed to load gallery")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": a.galleryItems(items), "type": c.Query("type")})
}

// ShowAbout 关于页
func (a *API) ShowAbout(c *gin.Context) {
	page, err := a.digest.About()
	if err != nil {
		a.respondServiceError(c, err, "failed to load about page")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"now_items": page.NowItems,
		"work":      experienceViews(page.Work),
		"education": experienceViews(page.Education),
		"awards":    experienceViews(page.Awards),
		"skills":    skillGroupViews(page.Skills),
		"resume":    a.resumeView(page.Resume),
	})
}

// ShowResume 简历页
func (a *API) ShowResume(c *gin.Context) {
	page, err := a.digest.Resume()
	if err != nil {
		a.respondServiceError(c, err, "failed to load resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resume":    a.resumeView(page.Resume),
		"work":      experienceViews(page.Work),
		"education": experienceViews(page.Education),
		"skills":    skillGroupViews(page.Skills),
	})
}

// Subscribe 处理邮件订阅表单，结果写入 flash 并 303 跳回来源页
func (a *API) Subscribe(c *gin.Context) {
	session := sessions.Default(c)

	outcome, _, err := a.subscriptions.Subscribe(c.PostForm("email"))
	switch {
	case err == nil:
		session.AddFlash(outcome.Message())
	case service.IsValidation(err):
		session.AddFlash("Please enter a valid email address.")
	default:
		a.respondServiceError(c, err, "failed to subscribe")
		return
	}

	if err := session.Save(); err != nil {
		a.respondServiceError(c, err, "failed to save session")
		return
	}
	c.Redirect(http.StatusSeeOther, redirectTarget(c))
}

// Unsubscribe 取消订阅
func (a *API) Unsubscribe(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		email = c.Query("email")
	}
	if err := a.subscriptions.Unsubscribe(email); err != nil {
		a.respondServiceError(c, err, "failed to unsubscribe")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You have been unsubscribed."})
}

// SubmitContact 接收联系表单，支持 JSON 或表单提交
func (a *API) SubmitContact(c *gin.Context) {
	var input service.ContactInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid contact payload")
		return
	}

	message, err := a.contacts.Submit(input)
	if err != nil {
		a.respondServiceError(c, err, "failed to submit message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Thanks for reaching out! I'll get back to you soon.", "id": message.ID})
}

// redirectTarget 只接受同站的 Referer，其余情况回到首页
func redirectTarget(c *gin.Context) string {
	referer := strings.TrimSpace(c.Request.Referer())
	if referer == "" {
		return "/"
	}
	parsed, err := url.Parse(referer)
	if err != nil {
		return "/"
	}
	if parsed.Host != "" && parsed.Host != c.Request.Host {
		return "/"
	}
	target := parsed.EscapedPath()
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	if parsed.RawQuery != "" {
		target += "?" + parsed.RawQuery
	}
	return target
}
