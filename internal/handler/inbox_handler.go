package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/view"
)

const (
	messageActionMarkRead   = "mark_read"
	messageActionMarkUnread = "mark_unread"
)

type messageView struct {
	db.ContactMessage
	Badge view.Badge `json:"badge"`
}

func messageViews(messages []db.ContactMessage) []messageView {
	views := make([]messageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, messageView{ContactMessage: message, Badge: view.MessageBadge(message.IsRead)})
	}
	return views
}

// ListMessages 返回联系留言，?unread=true 只看未读
func (a *API) ListMessages(c *gin.Context) {
	messages, err := a.contacts.List(queryBool(c, "unread"))
	if err != nil {
		a.respondServiceError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": messageViews(messages)})
}

// GetMessage 获取单条留言
func (a *API) GetMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	message, err := a.contacts.Get(id)
	if err != nil {
		a.respondServiceError(c, err, "failed to load message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": messageViews([]db.ContactMessage{*message})[0]})
}

// MessageActions 批量标记已读或未读
func (a *API) MessageActions(c *gin.Context) {
	var payload bulkActionPayload
	if !bindJSON(c, &payload, "invalid action payload") {
		return
	}

	if len(payload.IDs) == 0 {
		payload.IDs = parseUintQuerySlice(c.QueryArray("ids"))
	}

	var read bool
	switch strings.ToLower(strings.TrimSpace(payload.Action)) {
	case messageActionMarkRead:
		read = true
	case messageActionMarkUnread:
		read = false
	default:
		a.respondServiceError(c, fmt.Errorf("%w: unknown message action %q", service.ErrValidation, payload.Action), "failed to apply action")
		return
	}

	changed, err := a.contacts.MarkRead(payload.IDs, read)
	if err != nil {
		a.respondServiceError(c, err, "failed to apply action")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "action applied", "action": payload.Action, "updated": changed})
}

// DeleteMessage 删除留言
func (a *API) DeleteMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.contacts.Delete(id); err != nil {
		a.respondServiceError(c, err, "failed to delete message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

// ListSubscribers 返回订阅者，?active=true 只看有效订阅
func (a *API) ListSubscribers(c *gin.Context) {
	subscribers, err := a.subscriptions.List(queryBool(c, "active"))
	if err != nil {
		a.respondServiceError(c, err, "failed to list subscribers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": subscribers, "total": len(subscribers)})
}

// DeleteSubscriber 删除订阅者
func (a *API) DeleteSubscriber(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.subscriptions.Delete(id); err != nil {
		a.respondServiceError(c, err, "failed to delete subscriber")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subscriber deleted"})
}
