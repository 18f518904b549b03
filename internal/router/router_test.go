package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouterDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.EnsureUser(gdb, "admin", "secret"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return gdb
}

func TestUploadsServedUnderBothPrefixes(t *testing.T) {
	uploadDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(uploadDir, "gallery"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(uploadDir, "gallery", "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := SetupRouter(setupRouterDB(t), config.AppConfig{
		SessionSecret: "test",
		UploadDir:     uploadDir,
		UploadURLPath: "/static/uploads/",
	}, nil)

	for _, path := range []string{"/uploads/gallery/a.txt", "/static/uploads/gallery/a.txt"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK || rr.Body.String() != "hello" {
			t.Fatalf("GET %s: %d %q", path, rr.Code, rr.Body.String())
		}
	}
}

func TestAdminAPIRequiresLogin(t *testing.T) {
	r := SetupRouter(setupRouterDB(t), config.AppConfig{SessionSecret: "test", UploadDir: t.TempDir()}, nil)

	for _, path := range []string{"/admin/api/me", "/admin/api/dashboard", "/admin/api/messages"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s: expected 401, got %d", path, rr.Code)
		}
	}
}

func TestSessionCookieSecureOnHTTPS(t *testing.T) {
	r := SetupRouter(setupRouterDB(t), config.AppConfig{
		SessionSecret: "test",
		UploadDir:     t.TempDir(),
		SiteBaseURL:   "https://portfolio.example.com",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":"admin","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rr.Code, rr.Body.String())
	}

	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie")
	}
	cookie := cookies[0]
	if cookie.Name != sessionName || !cookie.Secure || !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}
}
