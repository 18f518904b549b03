package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/view"
)

type activityPayload struct {
	ActivityType string `json:"activity_type"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	Date         string `json:"date"`
	SortOrder    int    `json:"order"`
	IsVisible    *bool  `json:"is_visible"`
}

func (p activityPayload) toInput() (service.ActivityInput, error) {
	date, err := parseDate("date", p.Date)
	if err != nil {
		return service.ActivityInput{}, err
	}
	return service.ActivityInput{
		ActivityType: p.ActivityType,
		Title:        p.Title,
		Description:  p.Description,
		Link:         p.Link,
		Date:         date,
		SortOrder:    p.SortOrder,
		IsVisible:    p.IsVisible,
	}, nil
}

type activityView struct {
	db.RecentActivity
	Badge view.Badge `json:"badge"`
}

func activityViews(items []db.RecentActivity) []activityView {
	views := make([]activityView, 0, len(items))
	for _, item := range items {
		views = append(views, activityView{RecentActivity: item, Badge: view.ActivityBadge(item.ActivityType)})
	}
	return views
}

// ListActivities returns every recent activity.
func (a *API) ListActivities(c *gin.Context) {
	items, err := a.activities.List()
	if err != nil {
		a.respondServiceError(c, err, "failed to list activities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": activityViews(items)})
}

// CreateActivity creates a recent activity.
func (a *API) CreateActivity(c *gin.Context) {
	var payload activityPayload
	if !bindJSON(c, &payload, "invalid activity payload") {
		return
	}
	input, err := payload.toInput()
	if err != nil {
		a.respondServiceError(c, err, "failed to create activity")
		return
	}
	item, err := a.activities.Create(input)
	if err != nil {
		a.respondServiceError(c, err, "failed to create activity")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "activity created", "item": activityViews([]db.RecentActivity{*item})[0]})
}

// UpdateActivity updates a recent activity.
func (a *API) UpdateActivity(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload activityPayload
	if !bindJSON(c, &payload, "invalid activity payload") {
		return
	}
	input, err := payload.toInput()
	if err != nil {
		a.respondServiceError(c, err, "failed to update activity")
		return
	}
	item, err := a.activities.Update(id, input)
	if err != nil {
		a.respondServiceError(c, err, "failed to update activity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "activity updated", "item": activityViews([]db.RecentActivity{*item})[0]})
}

// DeleteActivity removes a recent activity.
func (a *API) DeleteActivity(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.activities.Delete(id); err != nil {
		a.respondServiceError(c, err, "failed to delete activity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "activity deleted"})
}
