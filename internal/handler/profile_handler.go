package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/view"
)

type skillPayload struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	SortOrder int    `json:"order"`
}

func (p skillPayload) toInput() service.SkillInput {
	return service.SkillInput{Category: p.Category, Name: p.Name, SortOrder: p.SortOrder}
}

type nowItemPayload struct {
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Link        string `json:"link"`
	SortOrder   int    `json:"order"`
	IsActive    *bool  `json:"is_active"`
}

func (p nowItemPayload) toInput() service.NowItemInput {
	return service.NowItemInput{
		Title:       p.Title,
		Icon:        p.Icon,
		Description: p.Description,
		Link:        p.Link,
		SortOrder:   p.SortOrder,
		IsActive:    p.IsActive,
	}
}

type skillGroupView struct {
	service.SkillGroup
	Label string `json:"label"`
}

func skillGroupViews(groups []service.SkillGroup) []skillGroupView {
	views := make([]skillGroupView, 0, len(groups))
	for _, group := range groups {
		views = append(views, skillGroupView{SkillGroup: group, Label: view.SkillCategoryLabel(group.Category)})
	}
	return views
}

// ListSkills 按分类返回技能
func (a *API) ListSkills(c *gin.Context) {
	groups, err := a.profile.GroupedSkills()
	if err != nil {
		a.respondServiceError(c, err, "failed to list skills")
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": skillGroupViews(groups)})
}

// CreateSkill 新建技能
func (a *API) CreateSkill(c *gin.Context) {
	var payload skillPayload
	if !bindJSON(c, &payload, "invalid skill payload") {
		return
	}
	skill, err := a.profile.CreateSkill(payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "failed to create skill")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "skill created", "item": skill})
}

// UpdateSkill 更新技能
func (a *API) UpdateSkill(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload skillPayload
	if !bindJSON(c, &payload, "invalid skill payload") {
		return
	}
	skill, err := a.profile.UpdateSkill(id, payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "failed to update skill")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "skill updated", "item": skill})
}

// DeleteSkill 删除技能
func (a *API) DeleteSkill(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.profile.DeleteSkill(id); err != nil {
		a.respondServiceError(c, err, "failed to delete skill")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "skill deleted"})
}

// ListNowItems 返回全部 "Now" 条目
func (a *API) ListNowItems(c *gin.Context) {
	items, err := a.profile.ListNowItems(queryBool(c, "active"))
	if err != nil {
		a.respondServiceError(c, err, "failed to list now items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateNowItem 新建条目
func (a *API) CreateNowItem(c *gin.Context) {
	var payload nowItemPayload
	if !bindJSON(c, &payload, "invalid now item payload") {
		return
	}
	item, err := a.profile.CreateNowItem(payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "failed to create now item")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "now item created", "item": item})
}

// UpdateNowItem 更新条目
func (a *API) UpdateNowItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload nowItemPayload
	if !bindJSON(c, &payload, "invalid now item payload") {
		return
	}
	item, err := a.profile.UpdateNowItem(id, payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "failed to update now item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "now item updated", "item": item})
}

// DeleteNowItem 删除条目
func (a *API) DeleteNowItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.profile.DeleteNowItem(id); err != nil {
		a.respondServiceError(c, err, "failed to delete now item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "now item deleted"})
}
