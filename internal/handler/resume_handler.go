package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
)

type resumePayload struct {
	Title      string `json:"title"`
	ResumeFile string `json:"resume_file"`
	Summary    string `json:"summary"`
	IsActive   *bool  `json:"is_active"`
}

func (p resumePayload) toInput() service.ResumeInput {
	return service.ResumeInput{
		Title:      p.Title,
		ResumeFile: p.ResumeFile,
		Summary:    p.Summary,
		IsActive:   p.IsActive,
	}
}

type resumeView struct {
	db.Resume
	FileURL string `json:"file_url"`
}

func (a *API) resumeView(resume *db.Resume) *resumeView {
	if resume == nil {
		return nil
	}
	return &resumeView{Resume: *resume, FileURL: a.mediaURL(resume.ResumeFile)}
}

// ListResumes 返回全部简历
func (a *API) ListResumes(c *gin.Context) {
	resumes, err := a.resumes.List()
	if err != nil {
		a.respondServiceError(c, err, "failed to list resumes")
		return
	}
	items := make([]*resumeView, 0, len(resumes))
	for i := range resumes {
		items = append(items, a.resumeView(&resumes[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateResume 新建简历，默认设为激活
func (a *API) CreateResume(c *gin.Context) {
	var payload resumePayload
	if !bindJSON(c, &payload, "invalid resume payload") {
		return
	}
	resume, err := a.resumes.Create(payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "failed to create resume")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "resume created", "item": a.resumeView(resume)})
}

// UpdateResume 更新简历
func (a *API) UpdateResume(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload resumePayload
	if !bindJSON(c, &payload, "invalid resume payload") {
		return
	}
	resume, err := a.resumes.Update(id, payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "failed to update resume")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "resume updated", "item": a.resumeView(resume)})
}

// ActivateResume 将指定简历设为唯一激活项
func (a *API) ActivateResume(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	resume, err := a.resumes.Activate(id)
	if err != nil {
		a.respondServiceError(c, err, "failed to activate resume")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "resume activated", "item": a.resumeView(resume)})
}

// DeleteResume 删除简历记录
func (a *API) DeleteResume(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.resumes.Delete(id); err != nil {
		a.respondServiceError(c, err, "failed to delete resume")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "resume deleted"})
}
