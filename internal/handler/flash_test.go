package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPopFlashesLogsSaveFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.WarnLevel)
	api := &API{log: logger.FromZap(zap.New(core))}

	r := gin.New()
	r.Use(sessions.Sessions("flash_test", cookie.NewStore([]byte("secret"))))
	r.GET("/", func(c *gin.Context) {
		session := sessions.Default(c)
		session.AddFlash("Thanks for subscribing!")
		// 超过 cookie 长度上限，Save 必然失败
		session.Set("blob", strings.Repeat("x", 8192))
		c.JSON(http.StatusOK, gin.H{"messages": api.popFlashes(c)})
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body struct {
		Messages []string `json:"messages"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Messages) != 1 || body.Messages[0] != "Thanks for subscribing!" {
		t.Fatalf("flash messages must still be returned, got %v", body.Messages)
	}

	entries := logs.FilterMessage("failed to save session after reading flashes").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["error"]; !ok {
		t.Fatalf("warning should carry the error, got %v", entries[0].ContextMap())
	}
}

func TestPopFlashesWithoutMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	api := &API{log: logger.FromZap(zap.New(core))}

	r := gin.New()
	r.Use(sessions.Sessions("flash_test", cookie.NewStore([]byte("secret"))))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"messages": api.popFlashes(c)})
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.TrimSpace(rr.Body.String()) != `{"messages":[]}` {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if logs.Len() != 0 {
		t.Fatalf("no log expected, got %d entries", logs.Len())
	}
}
