package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/view"
)

type experiencePayload struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Location     string   `json:"location"`
	StartDate    string   `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	IsCurrent    bool     `json:"is_current"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	TechStack    []string `json:"tech_stack"`
	Link         string   `json:"link"`
	SortOrder    int      `json:"order"`
}

func (p experiencePayload) toInput() (service.ExperienceInput, error) {
	start, err := parseDate("start_date", p.StartDate)
	if err != nil {
		return service.ExperienceInput{}, err
	}
	end, err := parseOptionalDate("end_date", p.EndDate)
	if err != nil {
		return service.ExperienceInput{}, err
	}
	return service.ExperienceInput{
		Type:         p.Type,
		Title:        p.Title,
		Organization: p.Organization,
		Location:     p.Location,
		StartDate:    start,
		EndDate:      end,
		IsCurrent:    p.IsCurrent,
		Description:  p.Description,
		Achievements: p.Achievements,
		TechStack:    p.TechStack,
		Link:         p.Link,
		SortOrder:    p.SortOrder,
	}, nil
}

type experienceView struct {
	db.Experience
	TypeLabel string `json:"type_label"`
}

func experienceViews(items []db.Experience) []experienceView {
	views := make([]experienceView, 0, len(items))
	for _, item := range items {
		views = append(views, experienceView{Experience: item, TypeLabel: view.ExperienceTypeLabel(item.Type)})
	}
	return views
}

// ListExperiences 后台经历列表，可按类型过滤
func (a *API) ListExperiences(c *gin.Context) {
	items, err := a.experiences.List(c.Query("type"))
	if err != nil {
		a.respondServiceError(c, err, "failed to list experiences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": experienceViews(items)})
}

// GetExperience 获取单条经历
func (a *API) GetExperience(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := a.experiences.Get(id)
	if err != nil {
		a.respondServiceError(c, err, "failed to load experience")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": experienceViews([]db.Experience{*item})[0]})
}

// CreateExperience 新建经历
func (a *API) CreateExperience(c *gin.Context) {
	var payload experiencePayload
	if !bindJSON(c, &payload, "invalid experience payload") {
		return
	}
	input, err := payload.toInput()
	if err != nil {
		a.respondServiceError(c, err, "failed to create experience")
		return
	}

	item, err := a.experiences.Create(input)
	if err != nil {
		a.respondServiceError(c, err, "failed to create experience")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "experience created", "item": item})
}

// UpdateExperience 更新经历
func (a *API) UpdateExperience(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload experiencePayload
	if !bindJSON(c, &payload, "invalid experience payload") {
		return
	}
	input, err := payload.toInput()
	if err != nil {
		a.respondServiceError(c, err, "failed to update experience")
		return
	}

	item, err := a.experiences.Update(id, input)
	if err != nil {
		a.respondServiceError(c, err, "failed to update experience")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "experience updated", "item": item})
}

// DeleteExperience 删除经历
func (a *API) DeleteExperience(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.experiences.Delete(id); err != nil {
		a.respondServiceError(c, err, "failed to delete experience")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "experience deleted"})
}
