package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/markdown"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/view"
)

type articlePayload struct {
	Title                 string   `json:"title"`
	Slug                  string   `json:"slug"`
	Type                  string   `json:"type"`
	Status                string   `json:"status"`
	Excerpt               string   `json:"excerpt"`
	Body                  string   `json:"body"`
	FeaturedImage         string   `json:"featured_image"`
	ImageCaption          string   `json:"image_caption"`
	HasInteractiveContent bool     `json:"has_interactive_content"`
	CustomCSS             string   `json:"custom_css"`
	CustomJavaScript      string   `json:"custom_javascript"`
	Tags                  []string `json:"tags"`
	ReadTime              int      `json:"read_time"`
	PublishedAt           *string  `json:"published_at"`
	IsFeatured            bool     `json:"is_featured"`
	MetaDescription       string   `json:"meta_description"`
}

func (p articlePayload) toInput() (service.ArticleInput, error) {
	publishedAt, err := parseOptionalDate("published_at", p.PublishedAt)
	if err != nil {
		return service.ArticleInput{}, err
	}
	return service.ArticleInput{
		Title:                 p.Title,
		Slug:                  p.Slug,
		Type:                  p.Type,
		Status:                p.Status,
		Excerpt:               p.Excerpt,
		Body:                  p.Body,
		FeaturedImage:         p.FeaturedImage,
		ImageCaption:          p.ImageCaption,
		HasInteractiveContent: p.HasInteractiveContent,
		CustomCSS:             p.CustomCSS,
		CustomJavaScript:      p.CustomJavaScript,
		Tags:                  p.Tags,
		ReadTime:              p.ReadTime,
		PublishedAt:           publishedAt,
		IsFeatured:            p.IsFeatured,
		MetaDescription:       p.MetaDescription,
	}, nil
}

type bulkActionPayload struct {
	Action string `json:"action"`
	IDs    []uint `json:"ids"`
}

type adminArticleView struct {
	db.Article
	FeaturedImageURL string     `json:"featured_image_url,omitempty"`
	URL              string     `json:"url"`
	TypeBadge        view.Badge `json:"type_badge"`
	StatusBadge      view.Badge `json:"status_badge"`
}

func (a *API) adminArticle(article db.Article) adminArticleView {
	return adminArticleView{
		Article:          article,
		FeaturedImageURL: a.mediaURL(article.FeaturedImage),
		URL:              "/essays/" + article.Slug,
		TypeBadge:        view.ArticleTypeBadge(article.Type),
		StatusBadge:      view.ArticleStatusBadge(article.Status),
	}
}

// ListArticles 后台文章列表，支持搜索、状态与类型过滤和分页
func (a *API) ListArticles(c *gin.Context) {
	result, err := a.articles.List(service.ArticleFilter{
		Search:  c.Query("q"),
		Status:  c.Query("status"),
		Type:    c.Query("type"),
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 20),
	})
	if err != nil {
		a.respondServiceError(c, err, "failed to list articles")
		return
	}

	items := make([]adminArticleView, 0, len(result.Articles))
	for _, article := range result.Articles {
		items = append(items, a.adminArticle(article))
	}

	c.JSON(http.StatusOK, gin.H{
		"items":           items,
		"total":           result.Total,
		"published_count": result.PublishedCount,
		"draft_count":     result.DraftCount,
		"page":            result.Page,
		"per_page":        result.PerPage,
		"total_pages":     result.TotalPages,
	})
}

// GetArticle 获取单篇文章
func (a *API) GetArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	article, err := a.articles.Get(id)
	if err != nil {
		a.respondServiceError(c, err, "failed to load article")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": a.adminArticle(*article)})
}

// CreateArticle 新建文章
func (a *API) CreateArticle(c *gin.Context) {
	var payload articlePayload
	if !bindJSON(c, &payload, "invalid article payload") {
		return
	}
	input, err := payload.toInput()
	if err != nil {
		a.respondServiceError(c, err, "failed to create article")
		return
	}

	article, err := a.articles.Create(input)
	if err != nil {
		a.respondServiceError(c, err, "failed to create article")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "article created", "item": a.adminArticle(*article)})
}

// UpdateArticle 更新文章
func (a *API) UpdateArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload articlePayload
	if !bindJSON(c, &payload, "invalid article payload") {
		return
	}
	input, err := payload.toInput()
	if err != nil {
		a.respondServiceError(c, err, "failed to update article")
		return
	}

	article, err := a.articles.Update(id, input)
	if err != nil {
		a.respondServiceError(c, err, "failed to update article")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article updated", "item": a.adminArticle(*article)})
}

// DeleteArticle 删除文章
func (a *API) DeleteArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.articles.Delete(id); err != nil {
		a.respondServiceError(c, err, "failed to delete article")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

// ArticleActions 批量发布、撤回、推荐或取消推荐
func (a *API) ArticleActions(c *gin.Context) {
	var payload bulkActionPayload
	if !bindJSON(c, &payload, "invalid action payload") {
		return
	}

	if len(payload.IDs) == 0 {
		payload.IDs = parseUintQuerySlice(c.QueryArray("ids"))
	}

	changed, err := a.articles.ApplyAction(payload.Action, payload.IDs)
	if err != nil {
		a.respondServiceError(c, err, "failed to apply action")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "action applied", "action": payload.Action, "updated": changed})
}

// PreviewArticle 渲染 Markdown 预览
func (a *API) PreviewArticle(c *gin.Context) {
	var payload struct {
		Body string `json:"body"`
	}
	if !bindJSON(c, &payload, "invalid preview payload") {
		return
	}

	html, err := markdown.Render(payload.Body)
	if err != nil {
		a.respondServiceError(c, err, "failed to render preview")
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": html})
}
