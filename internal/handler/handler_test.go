package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/router"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ginOnce sync.Once

const (
	testAdminUser     = "admin"
	testAdminPassword = "correct horse"
)

// testClient 在请求之间保留会话 cookie
type testClient struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func setupTestServer(t *testing.T) (*testClient, *gorm.DB, string) {
	t.Helper()

	ginOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	if err := db.EnsureUser(gdb, testAdminUser, testAdminPassword); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	uploadDir := t.TempDir()
	cfg := config.AppConfig{
		SessionSecret: "test-secret",
		UploadDir:     uploadDir,
		UploadURLPath: "/static/uploads",
		SiteBaseURL:   "http://example.com",
	}

	client := &testClient{t: t, engine: router.SetupRouter(gdb, cfg, nil), cookies: map[string]*http.Cookie{}}
	return client, gdb, uploadDir
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	c.engine.ServeHTTP(rr, req)
	for _, cookie := range rr.Result().Cookies() {
		c.cookies[cookie.Name] = cookie
	}
	return rr
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) sendJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		c.t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *testClient) postForm(path string, values url.Values, referer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	return c.do(req)
}

func (c *testClient) login() {
	c.t.Helper()
	rr := c.sendJSON(http.MethodPost, "/admin/login", map[string]string{"username": testAdminUser, "password": testAdminPassword})
	if rr.Code != http.StatusOK {
		c.t.Fatalf("login failed: %d %s", rr.Code, rr.Body.String())
	}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json %q: %v", rr.Body.String(), err)
	}
	return payload
}

func TestPing(t *testing.T) {
	client, _, _ := setupTestServer(t)

	rr := client.get("/ping")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "pong") {
		t.Fatalf("unexpected ping response: %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestAdminRequiresSession(t *testing.T) {
	client, _, _ := setupTestServer(t)

	rr := client.get("/admin/api/articles")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if body := decodeBody(t, rr); body["error"] == nil {
		t.Fatalf("expected json error body, got %v", body)
	}

	bad := client.sendJSON(http.MethodPost, "/admin/login", map[string]string{"username": testAdminUser, "password": "wrong"})
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", bad.Code)
	}

	client.login()
	if rr := client.get("/admin/api/me"); rr.Code != http.StatusOK {
		t.Fatalf("expected session to authenticate, got %d", rr.Code)
	}

	client.sendJSON(http.MethodPost, "/admin/logout", nil)
	if rr := client.get("/admin/api/me"); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rr.Code)
	}
}

func TestArticleLifecycle(t *testing.T) {
	client, _, _ := setupTestServer(t)
	client.login()

	rr := client.sendJSON(http.MethodPost, "/admin/api/articles", map[string]interface{}{
		"title":  "Hello, World! 2024",
		"status": "published",
		"body":   "## Intro\n\nSome *markdown* <script>alert(1)</script>",
		"tags":   []string{"go", " ", "web"},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create article: %d %s", rr.Code, rr.Body.String())
	}
	item := decodeBody(t, rr)["item"].(map[string]interface{})
	if item["slug"] != "hello-world-2024" || item["published_at"] == nil {
		t.Fatalf("unexpected article: %v", item)
	}
	if badge := item["status_badge"].(map[string]interface{}); badge["label"] != "Published" {
		t.Fatalf("unexpected status badge: %v", badge)
	}
	id := uint(item["id"].(float64))

	if rr := client.sendJSON(http.MethodPost, "/admin/api/articles", map[string]interface{}{"title": "Hello World 2024"}); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate slug, got %d", rr.Code)
	}
	if rr := client.sendJSON(http.MethodPost, "/admin/api/articles", map[string]interface{}{"title": ""}); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", rr.Code)
	}

	public := client.get("/essays/hello-world-2024")
	if public.Code != http.StatusOK {
		t.Fatalf("public essay: %d %s", public.Code, public.Body.String())
	}
	html := decodeBody(t, public)["html"].(string)
	if !strings.Contains(html, `<h2 id="intro">Intro</h2>`) || strings.Contains(html, "<script") {
		t.Fatalf("unexpected rendered html: %s", html)
	}

	list := decodeBody(t, client.get("/essays?q=MARKDOWN"))
	if items := list["items"].([]interface{}); len(items) != 1 {
		t.Fatalf("expected search to find the essay, got %v", items)
	}

	action := client.sendJSON(http.MethodPost, "/admin/api/articles/actions", map[string]interface{}{"action": "draft", "ids": []uint{id}})
	if action.Code != http.StatusOK {
		t.Fatalf("bulk action: %d %s", action.Code, action.Body.String())
	}
	if rr := client.get("/essays/hello-world-2024"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected drafts to be hidden, got %d", rr.Code)
	}

	if rr := client.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/api/articles/%d", id), nil)); rr.Code != http.StatusOK {
		t.Fatalf("delete article: %d", rr.Code)
	}
	if rr := client.get(fmt.Sprintf("/admin/api/articles/%d", id)); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestNewsletterSubscribeRedirectsWithFlash(t *testing.T) {
	client, gdb, _ := setupTestServer(t)

	rr := client.postForm("/newsletter/subscribe", url.Values{"email": {" Reader@Example.com "}}, "http://example.com/essays?type=tutorial")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if location := rr.Header().Get("Location"); location != "/essays?type=tutorial" {
		t.Fatalf("expected redirect back to referer, got %q", location)
	}

	home := decodeBody(t, client.get("/"))
	messages := home["messages"].([]interface{})
	if len(messages) != 1 || messages[0] != "Thanks for subscribing!" {
		t.Fatalf("expected subscribe flash, got %v", messages)
	}
	again := decodeBody(t, client.get("/"))
	if len(again["messages"].([]interface{})) != 0 {
		t.Fatalf("flash messages must be shown once")
	}

	var subscriber db.NewsletterSubscriber
	if err := gdb.First(&subscriber).Error; err != nil || subscriber.Email != "reader@example.com" {
		t.Fatalf("expected normalised subscriber, got %+v (%v)", subscriber, err)
	}

	rr = client.postForm("/newsletter/subscribe", url.Values{"email": {"reader@example.com"}}, "https://evil.example.org/phish")
	if location := rr.Header().Get("Location"); location != "/" {
		t.Fatalf("foreign referer must not be followed, got %q", location)
	}
	home = decodeBody(t, client.get("/"))
	if messages := home["messages"].([]interface{}); len(messages) != 1 || messages[0] != "You're already subscribed." {
		t.Fatalf("expected already-subscribed flash, got %v", messages)
	}

	client.postForm("/newsletter/subscribe", url.Values{"email": {"nope"}}, "")
	home = decodeBody(t, client.get("/"))
	if messages := home["messages"].([]interface{}); len(messages) != 1 || !strings.Contains(messages[0].(string), "valid email") {
		t.Fatalf("expected validation flash, got %v", messages)
	}
}

func TestContactSubmission(t *testing.T) {
	client, _, _ := setupTestServer(t)

	rr := client.sendJSON(http.MethodPost, "/contact", map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Hi!"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rr.Code, rr.Body.String())
	}

	bad := client.postForm("/contact", url.Values{"name": {"Ada"}, "email": {"not-an-email"}, "message": {"Hi"}}, "")
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", bad.Code)
	}

	client.login()
	list := decodeBody(t, client.get("/admin/api/messages?unread=true"))
	items := list["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected one unread message, got %v", items)
	}
	message := items[0].(map[string]interface{})
	if badge := message["badge"].(map[string]interface{}); badge["label"] != "New" {
		t.Fatalf("unexpected badge: %v", badge)
	}

	action := client.sendJSON(http.MethodPost, "/admin/api/messages/actions", map[string]interface{}{"action": "mark_read", "ids": []interface{}{message["id"]}})
	if action.Code != http.StatusOK {
		t.Fatalf("mark read: %d %s", action.Code, action.Body.String())
	}
	list = decodeBody(t, client.get("/admin/api/messages?unread=true"))
	if len(list["items"].([]interface{})) != 0 {
		t.Fatalf("expected no unread messages")
	}
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadAndGalleryThumbnail(t *testing.T) {
	client, _, _ := setupTestServer(t)
	client.login()

	if rr := client.do(uploadRequest(t, "/admin/api/uploads/gallery", "notes.txt", []byte("text"))); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for disallowed extension, got %d", rr.Code)
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)
	if rr := client.do(uploadRequest(t, "/admin/api/uploads/articles", "diagram.svg", svg)); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for svg upload, got %d", rr.Code)
	}

	rr := client.do(uploadRequest(t, "/admin/api/uploads/gallery", "photo.png", pngBytes(t, 900, 600)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rr.Code, rr.Body.String())
	}
	uploaded := decodeBody(t, rr)
	path := uploaded["path"].(string)
	if !strings.HasPrefix(path, "gallery/") || uploaded["url"] != "/static/uploads/"+path {
		t.Fatalf("unexpected upload response: %v", uploaded)
	}

	created := client.sendJSON(http.MethodPost, "/admin/api/gallery", map[string]interface{}{"title": "Blue", "image": path})
	if created.Code != http.StatusCreated {
		t.Fatalf("create gallery item: %d %s", created.Code, created.Body.String())
	}
	item := decodeBody(t, created)["item"].(map[string]interface{})
	thumb, _ := item["thumbnail"].(string)
	if !strings.HasPrefix(thumb, "gallery/thumbnails/") || !strings.HasSuffix(thumb, "_thumb.jpg") {
		t.Fatalf("expected derived thumbnail, got %v", item)
	}

	if rr := client.get("/uploads/" + thumb); rr.Code != http.StatusOK {
		t.Fatalf("thumbnail should be served, got %d", rr.Code)
	}

	gallery := decodeBody(t, client.get("/gallery"))
	if items := gallery["items"].([]interface{}); len(items) != 1 {
		t.Fatalf("expected one public gallery item, got %v", items)
	}
}

func TestProjectEndpoints(t *testing.T) {
	client, _, _ := setupTestServer(t)
	client.login()

	create := func(body map[string]interface{}) uint {
		t.Helper()
		rr := client.sendJSON(http.MethodPost, "/admin/api/experiences", body)
		if rr.Code != http.StatusCreated {
			t.Fatalf("create experience: %d %s", rr.Code, rr.Body.String())
		}
		return uint(decodeBody(t, rr)["item"].(map[string]interface{})["id"].(float64))
	}

	primary := create(map[string]interface{}{"type": "project", "title": "Main", "start_date": "2024-01-01", "tech_stack": []string{"Go", "React"}})
	create(map[string]interface{}{"type": "project", "title": "Sibling", "start_date": "2023-01-01", "tech_stack": []string{"Go"}})
	work := create(map[string]interface{}{"type": "work", "title": "Job", "start_date": "2020-05-01"})

	if rr := client.sendJSON(http.MethodPost, "/admin/api/experiences", map[string]interface{}{"type": "project", "title": "Bad", "start_date": "01/02/2020"}); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rr.Code)
	}

	filtered := decodeBody(t, client.get("/projects?category=react"))
	if items := filtered["items"].([]interface{}); len(items) != 1 {
		t.Fatalf("expected one react project, got %v", items)
	}

	detail := decodeBody(t, client.get(fmt.Sprintf("/projects/%d", primary)))
	if related := detail["related"].([]interface{}); len(related) != 1 {
		t.Fatalf("expected one related project, got %v", related)
	}

	if rr := client.get(fmt.Sprintf("/projects/%d", work)); rr.Code != http.StatusNotFound {
		t.Fatalf("work entries are not projects, got %d", rr.Code)
	}
}

func TestResumeActivation(t *testing.T) {
	client, _, _ := setupTestServer(t)
	client.login()

	first := decodeBody(t, client.sendJSON(http.MethodPost, "/admin/api/resumes", map[string]string{"resume_file": "resume/a.pdf"}))["item"].(map[string]interface{})
	client.sendJSON(http.MethodPost, "/admin/api/resumes", map[string]string{"resume_file": "resume/b.pdf"})

	rr := client.sendJSON(http.MethodPost, fmt.Sprintf("/admin/api/resumes/%d/activate", uint(first["id"].(float64))), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("activate: %d %s", rr.Code, rr.Body.String())
	}

	page := decodeBody(t, client.get("/resume"))
	resume := page["resume"].(map[string]interface{})
	if resume["resume_file"] != "resume/a.pdf" || resume["file_url"] != "/static/uploads/resume/a.pdf" {
		t.Fatalf("unexpected active resume: %v", resume)
	}
}
