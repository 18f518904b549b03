package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/view"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
)

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login 校验管理员账号并写入会话，接受表单或 JSON
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBind(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid login request")
		return
	}
	if strings.TrimSpace(payload.Username) == "" || payload.Password == "" {
		respondError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := db.Authenticate(a.db, payload.Username, payload.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		a.respondServiceError(c, err, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged in", "username": user.Username})
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		a.respondServiceError(c, err, "failed to clear session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// AuthRequired 未登录时返回 401 JSON
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserIDKey) == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Me 返回当前登录的管理员
func (a *API) Me(c *gin.Context) {
	session := sessions.Default(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":  session.Get(sessionUserIDKey),
		"username": session.Get(sessionUsernameKey),
	})
}

// Dashboard 汇总后台首页的计数
func (a *API) Dashboard(c *gin.Context) {
	counts := gin.H{}
	for key, model := range map[string]interface{}{
		"articles":    &db.Article{},
		"gallery":     &db.GalleryItem{},
		"experiences": &db.Experience{},
		"skills":      &db.Skill{},
		"subscribers": &db.NewsletterSubscriber{},
		"messages":    &db.ContactMessage{},
	} {
		var count int64
		if err := a.db.Model(model).Count(&count).Error; err != nil {
			a.respondServiceError(c, err, "failed to load dashboard")
			return
		}
		counts[key] = count
	}

	unread, err := a.contacts.UnreadCount()
	if err != nil {
		a.respondServiceError(c, err, "failed to load dashboard")
		return
	}
	counts["unread_messages"] = unread

	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// FormOptions 返回后台表单使用的枚举选项
func (a *API) FormOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"options": view.FormOptions()})
}
