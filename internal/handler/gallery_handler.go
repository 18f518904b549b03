package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/view"
)

type galleryPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Thumbnail    string   `json:"thumbnail"`
	GalleryType  string   `json:"gallery_type"`
	Tags         []string `json:"tags"`
	ExternalLink string   `json:"external_link"`
	SortOrder    *int     `json:"order"`
	IsVisible    *bool    `json:"is_visible"`
}

func (p galleryPayload) toInput() service.GalleryInput {
	return service.GalleryInput{
		Title:        p.Title,
		Description:  p.Description,
		Image:        p.Image,
		Thumbnail:    p.Thumbnail,
		GalleryType:  p.GalleryType,
		Tags:         p.Tags,
		ExternalLink: p.ExternalLink,
		SortOrder:    p.SortOrder,
		IsVisible:    p.IsVisible,
	}
}

type galleryItemView struct {
	db.GalleryItem
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	TypeLabel    string `json:"type_label"`
}

func (a *API) galleryItem(item db.GalleryItem) galleryItemView {
	return galleryItemView{
		GalleryItem:  item,
		ImageURL:     a.mediaURL(item.Image),
		ThumbnailURL: a.mediaURL(item.Thumbnail),
		TypeLabel:    view.GalleryTypeLabel(item.GalleryType),
	}
}

func (a *API) galleryItems(items []db.GalleryItem) []galleryItemView {
	views := make([]galleryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, a.galleryItem(item))
	}
	return views
}

// ListGalleryItems returns gallery items for the admin.
func (a *API) ListGalleryItems(c *gin.Context) {
	result, err := a.galleries.List(service.GalleryFilter{
		Search:      c.Query("q"),
		GalleryType: c.Query("type"),
		Page:        queryInt(c, "page", 1),
		PerPage:     queryInt(c, "per_page", 24),
	})
	if err != nil {
		a.respondServiceError(c, err, "failed to list gallery items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       a.galleryItems(result.Items),
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// GetGalleryItem returns one gallery item.
func (a *API) GetGalleryItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := a.galleries.Get(id)
	if err != nil {
		a.respondServiceError(c, err, "failed to load gallery item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": a.galleryItem(*item)})
}

// CreateGalleryItem creates a new gallery item.
func (a *API) CreateGalleryItem(c *gin.Context) {
	var payload galleryPayload
	if !bindJSON(c, &payload, "invalid gallery payload") {
		return
	}

	item, err := a.galleries.Create(payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "failed to create gallery item")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "gallery item created", "item": a.galleryItem(*item)})
}

// UpdateGalleryItem updates an existing gallery item.
func (a *API) UpdateGalleryItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload galleryPayload
	if !bindJSON(c, &payload, "invalid gallery payload") {
		return
	}

	item, err := a.galleries.Update(id, payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "failed to update gallery item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "gallery item updated", "item": a.galleryItem(*item)})
}

// DeleteGalleryItem removes a gallery item.
func (a *API) DeleteGalleryItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.galleries.Delete(id); err != nil {
		a.respondServiceError(c, err, "failed to delete gallery item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "gallery item deleted"})
}
