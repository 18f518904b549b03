package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/logger"
	"gorm.io/gorm"
)

// GalleryService handles gallery CRUD and thumbnail derivation.
type GalleryService struct {
	db      *gorm.DB
	deriver ThumbnailDeriver
	log     logger.Logger
}

// GalleryFilter describes filters for listing gallery items.
type GalleryFilter struct {
	Search      string
	GalleryType string
	VisibleOnly bool
	Page        int
	PerPage     int
}

// GalleryListResult aggregates paginated gallery results.
type GalleryListResult struct {
	Items      []db.GalleryItem
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// GalleryInput represents fields accepted when creating or updating a gallery item.
type GalleryInput struct {
	Title        string
	Description  string
	Image        string
	Thumbnail    string
	GalleryType  string
	Tags         []string
	ExternalLink string
	SortOrder    *int
	IsVisible    *bool
}

// NewGalleryService creates a GalleryService instance. deriver may be nil,
// in which case thumbnails are never derived.
func NewGalleryService(gdb *gorm.DB, deriver ThumbnailDeriver, log logger.Logger) *GalleryService {
	if log == nil {
		log = logger.NewNop()
	}
	return &GalleryService{db: gdb, deriver: deriver, log: log}
}

const galleryOrder = "sort_order asc, created_at desc, id desc"

// ListVisible returns visible gallery items, optionally of a single type.
func (s *GalleryService) ListVisible(galleryType string) ([]db.GalleryItem, error) {
	query := s.db.Where("is_visible = ?", true)
	if t := strings.TrimSpace(galleryType); t != "" {
		query = query.Where("gallery_type = ?", t)
	}

	var items []db.GalleryItem
	if err := query.Order(galleryOrder).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List returns gallery items matching the filter.
func (s *GalleryService) List(filter GalleryFilter) (GalleryListResult, error) {
	result := GalleryListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 24),
	}

	query := s.db.Model(&db.GalleryItem{})
	if filter.VisibleOnly {
		query = query.Where("is_visible = ?", true)
	}
	if t := strings.TrimSpace(filter.GalleryType); t != "" {
		query = query.Where("gallery_type = ?", t)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := likePattern(search)
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order(galleryOrder).
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Get fetches a gallery item by id.
func (s *GalleryService) Get(id uint) (*db.GalleryItem, error) {
	var item db.GalleryItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a new gallery item and then derives its thumbnail when missing.
func (s *GalleryService) Create(input GalleryInput) (*db.GalleryItem, error) {
	input = normalizeGalleryInput(input)
	if err := validateGalleryInput(input); err != nil {
		return nil, err
	}

	item := db.GalleryItem{IsVisible: true}
	if input.SortOrder == nil {
		order, err := s.nextSortOrder()
		if err != nil {
			return nil, err
		}
		item.SortOrder = order
	}
	applyGalleryInput(&item, input)

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}

	s.DeriveThumbnail(&item)
	return &item, nil
}

// Update modifies an existing gallery item. Saving an item that still has no
// thumbnail retries the derivation.
func (s *GalleryService) Update(id uint, input GalleryInput) (*db.GalleryItem, error) {
	input = normalizeGalleryInput(input)
	if err := validateGalleryInput(input); err != nil {
		return nil, err
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	imageChanged := item.Image != input.Image
	keepThumbnail := item.Thumbnail
	applyGalleryInput(item, input)
	if input.Thumbnail == "" && !imageChanged {
		item.Thumbnail = keepThumbnail
	}

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}

	s.DeriveThumbnail(item)
	return item, nil
}

// Delete removes a gallery item.
func (s *GalleryService) Delete(id uint) error {
	result := s.db.Delete(&db.GalleryItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGalleryNotFound
	}
	return nil
}

// DeriveThumbnail generates and attaches a thumbnail for a persisted item
// that has an image but no thumbnail. It reports whether one was attached.
// Failures are logged and leave the item without thumbnail.
func (s *GalleryService) DeriveThumbnail(item *db.GalleryItem) bool {
	if s.deriver == nil || item.ID == 0 || item.Image == "" || item.Thumbnail != "" {
		return false
	}

	thumb, err := s.deriver.Derive(item.Image)
	if err != nil {
		s.log.Warn("thumbnail derivation failed",
			logger.Uint("gallery_item_id", item.ID),
			logger.String("image", item.Image),
			logger.Error(err),
		)
		return false
	}

	// UpdateColumn 不触发钩子，也不会再次进入派生流程
	if err := s.db.Model(&db.GalleryItem{}).
		Where("id = ? AND (thumbnail = '' OR thumbnail IS NULL)", item.ID).
		UpdateColumn("thumbnail", thumb).Error; err != nil {
		s.log.Warn("thumbnail reference not persisted",
			logger.Uint("gallery_item_id", item.ID),
			logger.Error(err),
		)
		return false
	}

	item.Thumbnail = thumb
	s.log.Info("thumbnail generated", logger.Uint("gallery_item_id", item.ID), logger.String("thumbnail", thumb))
	return true
}

func normalizeGalleryInput(input GalleryInput) GalleryInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Image = strings.TrimSpace(input.Image)
	input.Thumbnail = strings.TrimSpace(input.Thumbnail)
	input.GalleryType = strings.ToLower(strings.TrimSpace(input.GalleryType))
	if input.GalleryType == "" {
		input.GalleryType = db.GalleryTypePhoto
	}
	input.ExternalLink = strings.TrimSpace(input.ExternalLink)
	return input
}

func validateGalleryInput(input GalleryInput) error {
	return validationError(validation.ValidateStruct(&input,
		validation.Field(&input.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&input.Image, validation.Required),
		validation.Field(&input.GalleryType, validation.In(anyOf(db.GalleryTypes)...)),
	))
}

func applyGalleryInput(item *db.GalleryItem, input GalleryInput) {
	item.Title = input.Title
	item.Description = input.Description
	item.Image = input.Image
	item.Thumbnail = input.Thumbnail
	item.GalleryType = input.GalleryType
	item.Tags = cleanList(input.Tags)
	item.ExternalLink = input.ExternalLink
	if input.SortOrder != nil {
		item.SortOrder = *input.SortOrder
	}
	if input.IsVisible != nil {
		item.IsVisible = *input.IsVisible
	}
}

func (s *GalleryService) nextSortOrder() (int, error) {
	var maxOrder int
	if err := s.db.Model(&db.GalleryItem{}).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}
