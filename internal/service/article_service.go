package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

// Bulk actions the admin can apply to a selection of articles.
const (
	ArticleActionPublish   = "publish"
	ArticleActionDraft     = "draft"
	ArticleActionFeature   = "feature"
	ArticleActionUnfeature = "unfeature"
)

const wordsPerMinute = 200

// ArticleService wraps article persistence and the publishing rules.
type ArticleService struct {
	db  *gorm.DB
	now Clock
}

// ArticleInput represents fields accepted when creating or updating an article.
type ArticleInput struct {
	Title                 string
	Slug                  string
	Type                  string
	Status                string
	Excerpt               string
	Body                  string
	FeaturedImage         string
	ImageCaption          string
	HasInteractiveContent bool
	CustomCSS             string
	CustomJavaScript      string
	Tags                  []string
	ReadTime              int
	PublishedAt           *time.Time
	IsFeatured            bool
	MetaDescription       string
}

// ArticleFilter describes filters for the admin article list.
type ArticleFilter struct {
	Search  string
	Status  string
	Type    string
	Page    int
	PerPage int
}

// ArticleListResult aggregates paginated list data and counters.
type ArticleListResult struct {
	Articles       []db.Article
	Total          int64
	PublishedCount int64
	DraftCount     int64
	TotalPages     int
	Page           int
	PerPage        int
}

// PublishedFilter narrows the public essay listing.
type PublishedFilter struct {
	Type  string
	Query string
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB) *ArticleService {
	return &ArticleService{db: gdb, now: systemClock}
}

// WithClock replaces the time source used for publish stamping.
func (s *ArticleService) WithClock(clock Clock) *ArticleService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// EnsureSlug derives the slug from the title when none is set and rejects
// slugs already used by another article. tx must be the write transaction.
func EnsureSlug(tx *gorm.DB, article *db.Article) error {
	source := article.Slug
	if strings.TrimSpace(source) == "" {
		source = article.Title
	}
	article.Slug = Slugify(source)
	if article.Slug == "" {
		return fmt.Errorf("%w: slug: cannot be derived from title", ErrValidation)
	}

	var count int64
	if err := tx.Model(&db.Article{}).
		Where("slug = ? AND id <> ?", article.Slug, article.ID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check article slug: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrArticleSlugTaken, article.Slug)
	}
	return nil
}

// StampPublish sets PublishedAt the first time a published article is saved.
func StampPublish(article *db.Article, now time.Time) {
	if article.Status != db.ArticleStatusPublished {
		return
	}
	if article.PublishedAt != nil && !article.PublishedAt.IsZero() {
		return
	}
	stamped := now
	article.PublishedAt = &stamped
}

// Get fetches an article by id.
func (s *ArticleService) Get(id uint) (*db.Article, error) {
	var article db.Article
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// GetPublishedBySlug returns a published article for the given slug.
func (s *ArticleService) GetPublishedBySlug(slug string) (*db.Article, error) {
	var article db.Article
	if err := s.db.Where("slug = ? AND status = ?", strings.TrimSpace(slug), db.ArticleStatusPublished).
		First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// Create persists a new article applying slug and publish rules.
func (s *ArticleService) Create(input ArticleInput) (*db.Article, error) {
	input = normalizeArticleInput(input)
	if err := validateArticleInput(input); err != nil {
		return nil, err
	}

	article := db.Article{Slug: input.Slug}
	applyArticleInput(&article, input)
	if input.PublishedAt != nil {
		article.PublishedAt = input.PublishedAt
	}

	if err := s.save(&article); err != nil {
		return nil, err
	}
	return &article, nil
}

// Update applies updates to an existing article. The slug is kept unless a
// new one is given explicitly; it is never re-derived from the title.
func (s *ArticleService) Update(id uint, input ArticleInput) (*db.Article, error) {
	input = normalizeArticleInput(input)
	if err := validateArticleInput(input); err != nil {
		return nil, err
	}

	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Slug != "" {
		existing.Slug = input.Slug
	}
	applyArticleInput(existing, input)
	if input.PublishedAt != nil {
		existing.PublishedAt = input.PublishedAt
	}

	if err := s.save(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes an article by id.
func (s *ArticleService) Delete(id uint) error {
	result := s.db.Delete(&db.Article{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// ApplyAction runs a bulk admin action over the given ids, enforcing the
// publishing rules for each record. It returns the number of articles changed.
func (s *ArticleService) ApplyAction(action string, ids []uint) (int, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	switch action {
	case ArticleActionPublish, ArticleActionDraft, ArticleActionFeature, ArticleActionUnfeature:
	default:
		return 0, fmt.Errorf("%w: unknown article action %q", ErrValidation, action)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	updated := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var articles []db.Article
		if err := tx.Where("id IN ?", ids).Find(&articles).Error; err != nil {
			return err
		}

		now := s.now()
		for i := range articles {
			article := &articles[i]
			switch action {
			case ArticleActionPublish:
				article.Status = db.ArticleStatusPublished
			case ArticleActionDraft:
				article.Status = db.ArticleStatusDraft
			case ArticleActionFeature:
				article.IsFeatured = true
			case ArticleActionUnfeature:
				article.IsFeatured = false
			}
			StampPublish(article, now)
			if err := tx.Save(article).Error; err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// List provides paginated articles for the admin with status counters.
func (s *ArticleService) List(filter ArticleFilter) (*ArticleListResult, error) {
	result := &ArticleListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 20),
	}

	query := s.applyFilters(s.db.Model(&db.Article{}), filter, true)
	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage
	if err := s.applyFilters(s.db.Model(&db.Article{}), filter, true).
		Order("created_at desc, id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Articles).Error; err != nil {
		return nil, err
	}

	if err := s.applyFilters(s.db.Model(&db.Article{}), filter, false).
		Where("status = ?", db.ArticleStatusPublished).
		Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}
	if err := s.applyFilters(s.db.Model(&db.Article{}), filter, false).
		Where("status = ?", db.ArticleStatusDraft).
		Count(&result.DraftCount).Error; err != nil {
		return nil, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	return result, nil
}

// ListPublished returns published articles, newest first, optionally narrowed
// by type and a case-insensitive search over title, excerpt and body.
func (s *ArticleService) ListPublished(filter PublishedFilter) ([]db.Article, error) {
	query := s.db.Model(&db.Article{}).Where("status = ?", db.ArticleStatusPublished)
	if articleType := strings.TrimSpace(filter.Type); articleType != "" {
		query = query.Where("type = ?", articleType)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		like := likePattern(search)
		query = query.Where(
			`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(excerpt) LIKE ? ESCAPE '\' OR LOWER(body) LIKE ? ESCAPE '\')`,
			like, like, like,
		)
	}

	var articles []db.Article
	if err := query.Order(publishedOrder).Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// Related returns up to limit other published articles of the same type.
// There is no fallback to other types when fewer remain.
func (s *ArticleService) Related(article *db.Article, limit int) ([]db.Article, error) {
	limit = normalizeLimit(limit, 3)

	var related []db.Article
	if err := s.db.Where("status = ? AND id <> ? AND type = ?", db.ArticleStatusPublished, article.ID, article.Type).
		Order(publishedOrder).
		Limit(limit).
		Find(&related).Error; err != nil {
		return nil, err
	}
	return related, nil
}

// Latest returns the most recently published articles.
func (s *ArticleService) Latest(limit int) ([]db.Article, error) {
	var articles []db.Article
	if err := s.db.Where("status = ?", db.ArticleStatusPublished).
		Order(publishedOrder).
		Limit(normalizeLimit(limit, 4)).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// Featured returns published articles flagged as featured.
func (s *ArticleService) Featured(limit int) ([]db.Article, error) {
	var articles []db.Article
	if err := s.db.Where("status = ? AND is_featured = ?", db.ArticleStatusPublished, true).
		Order(publishedOrder).
		Limit(normalizeLimit(limit, 3)).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

const publishedOrder = "published_at IS NULL, published_at desc, id desc"

func (s *ArticleService) save(article *db.Article) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := EnsureSlug(tx, article); err != nil {
			return err
		}
		StampPublish(article, s.now())
		if err := tx.Save(article).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrArticleSlugTaken, article.Slug)
			}
			return err
		}
		return nil
	})
}

func (s *ArticleService) applyFilters(query *gorm.DB, filter ArticleFilter, includeStatus bool) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := likePattern(search)
		query = query.Where(
			`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(excerpt) LIKE ? ESCAPE '\' OR LOWER(body) LIKE ? ESCAPE '\')`,
			like, like, like,
		)
	}
	if articleType := strings.TrimSpace(filter.Type); articleType != "" {
		query = query.Where("type = ?", articleType)
	}
	if includeStatus {
		if status := strings.TrimSpace(filter.Status); status != "" {
			query = query.Where("status = ?", status)
		}
	}
	return query
}

func normalizeArticleInput(input ArticleInput) ArticleInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.TrimSpace(input.Slug)
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	if input.Type == "" {
		input.Type = db.ArticleTypeEssay
	}
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if input.Status == "" {
		input.Status = db.ArticleStatusDraft
	}
	input.Excerpt = strings.TrimSpace(input.Excerpt)
	input.FeaturedImage = strings.TrimSpace(input.FeaturedImage)
	input.ImageCaption = strings.TrimSpace(input.ImageCaption)
	input.MetaDescription = strings.TrimSpace(input.MetaDescription)
	return input
}

func validateArticleInput(input ArticleInput) error {
	return validationError(validation.ValidateStruct(&input,
		validation.Field(&input.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&input.Slug, validation.RuneLength(0, 200)),
		validation.Field(&input.Type, validation.In(anyOf(db.ArticleTypes)...)),
		validation.Field(&input.Status, validation.In(anyOf(db.ArticleStatuses)...)),
		validation.Field(&input.Excerpt, validation.RuneLength(0, 500)),
		validation.Field(&input.ImageCaption, validation.RuneLength(0, 200)),
		validation.Field(&input.MetaDescription, validation.RuneLength(0, 160)),
		validation.Field(&input.ReadTime, validation.Min(0)),
	))
}

func applyArticleInput(article *db.Article, input ArticleInput) {
	article.Title = input.Title
	article.Type = input.Type
	article.Status = input.Status
	article.Excerpt = input.Excerpt
	article.Body = input.Body
	article.FeaturedImage = input.FeaturedImage
	article.ImageCaption = input.ImageCaption
	article.HasInteractiveContent = input.HasInteractiveContent
	article.CustomCSS = input.CustomCSS
	article.CustomJavaScript = input.CustomJavaScript
	article.Tags = cleanList(input.Tags)
	article.ReadTime = input.ReadTime
	if article.ReadTime <= 0 {
		article.ReadTime = estimateReadTime(input.Body)
	}
	article.IsFeatured = input.IsFeatured
	article.MetaDescription = input.MetaDescription
}

// estimateReadTime returns whole minutes at a fixed reading speed, at least one.
func estimateReadTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 1
	}
	minutes := words / wordsPerMinute
	if words%wordsPerMinute != 0 {
		minutes++
	}
	return minutes
}

func anyOf(values []string) []interface{} {
	items := make([]interface{}, len(values))
	for i, value := range values {
		items[i] = value
	}
	return items
}
