package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/portfolio/internal/db"
)

func TestArticleCreateDerivesSlugAndDefaults(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewArticleService(gdb)

	article, err := svc.Create(ArticleInput{Title: "Hello, World! 2024", Body: "short body"})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	if article.Slug != "hello-world-2024" {
		t.Fatalf("expected derived slug, got %q", article.Slug)
	}
	if article.Type != db.ArticleTypeEssay || article.Status != db.ArticleStatusDraft {
		t.Fatalf("unexpected defaults: type=%s status=%s", article.Type, article.Status)
	}
	if article.PublishedAt != nil {
		t.Fatalf("draft must not be stamped")
	}
	if article.ReadTime != 1 {
		t.Fatalf("expected read time 1, got %d", article.ReadTime)
	}
}

func TestArticleCreateRejectsSymbolOnlyTitle(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewArticleService(gdb)

	_, err := svc.Create(ArticleInput{Title: "!!!"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var count int64
	gdb.Model(&db.Article{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected nothing persisted, got %d", count)
	}
}

func TestArticleSlugConflict(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewArticleService(gdb)

	if _, err := svc.Create(ArticleInput{Title: "Same Title"}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	_, err := svc.Create(ArticleInput{Title: "Same title!"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	var count int64
	gdb.Model(&db.Article{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 article, got %d", count)
	}
}

func TestArticlePublishStampedOnce(t *testing.T) {
	gdb := setupServiceTestDB(t)
	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewArticleService(gdb).WithClock(fixedClock(first))

	article, err := svc.Create(ArticleInput{Title: "Draft first"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(article.ID, ArticleInput{Title: "Draft first", Status: db.ArticleStatusPublished})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if updated.PublishedAt == nil || !updated.PublishedAt.Equal(first) {
		t.Fatalf("expected published_at %v, got %v", first, updated.PublishedAt)
	}

	svc.WithClock(fixedClock(first.Add(48 * time.Hour)))
	if _, err := svc.Update(article.ID, ArticleInput{Title: "Draft first", Status: db.ArticleStatusDraft}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	again, err := svc.Update(article.ID, ArticleInput{Title: "Renamed", Status: db.ArticleStatusPublished})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(first) {
		t.Fatalf("published_at must never be reset, got %v", again.PublishedAt)
	}
	if again.Slug != "draft-first" {
		t.Fatalf("slug must not follow title changes, got %q", again.Slug)
	}
}

func TestArticleUpdateExplicitSlug(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewArticleService(gdb)

	a, _ := svc.Create(ArticleInput{Title: "Alpha"})
	if _, err := svc.Create(ArticleInput{Title: "Beta"}); err != nil {
		t.Fatalf("create beta: %v", err)
	}

	if _, err := svc.Update(a.ID, ArticleInput{Title: "Alpha", Slug: "beta"}); !errors.Is(err, ErrArticleSlugTaken) {
		t.Fatalf("expected slug taken, got %v", err)
	}
	updated, err := svc.Update(a.ID, ArticleInput{Title: "Alpha", Slug: "Alpha Renamed"})
	if err != nil {
		t.Fatalf("update slug: %v", err)
	}
	if updated.Slug != "alpha-renamed" {
		t.Fatalf("expected normalised slug, got %q", updated.Slug)
	}
}

func TestArticleApplyAction(t *testing.T) {
	gdb := setupServiceTestDB(t)
	now := time.Date(2024, 5, 5, 8, 0, 0, 0, time.UTC)
	svc := NewArticleService(gdb).WithClock(fixedClock(now))

	a, _ := svc.Create(ArticleInput{Title: "One"})
	b, _ := svc.Create(ArticleInput{Title: "Two"})

	changed, err := svc.ApplyAction(ArticleActionPublish, []uint{a.ID, b.ID})
	if err != nil {
		t.Fatalf("publish action: %v", err)
	}
	if changed != 2 {
		t.Fatalf("expected 2 changed, got %d", changed)
	}
	for _, id := range []uint{a.ID, b.ID} {
		got, _ := svc.Get(id)
		if !got.IsPublished() || got.PublishedAt == nil || !got.PublishedAt.Equal(now) {
			t.Fatalf("article %d not stamped: %+v", id, got.PublishedAt)
		}
	}

	if _, err := svc.ApplyAction(ArticleActionFeature, []uint{a.ID}); err != nil {
		t.Fatalf("feature action: %v", err)
	}
	featured, err := svc.Featured(3)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != 1 || featured[0].ID != a.ID {
		t.Fatalf("unexpected featured list: %+v", featured)
	}

	if _, err := svc.ApplyAction("archive-everything", []uint{a.ID}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown action, got %v", err)
	}
}

func TestArticleListPublishedFiltersAndOrder(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewArticleService(gdb)

	older := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mustCreate := func(input ArticleInput) *db.Article {
		t.Helper()
		article, err := svc.Create(input)
		if err != nil {
			t.Fatalf("create %q: %v", input.Title, err)
		}
		return article
	}

	mustCreate(ArticleInput{Title: "Old Essay", Status: db.ArticleStatusPublished, PublishedAt: &older, Body: "about gardens"})
	mustCreate(ArticleInput{Title: "New Tutorial", Type: db.ArticleTypeTutorial, Status: db.ArticleStatusPublished, PublishedAt: &newer, Body: "Gardening 101"})
	mustCreate(ArticleInput{Title: "Unpublished Garden", Body: "garden"})

	all, err := svc.ListPublished(PublishedFilter{})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(all) != 2 || all[0].Title != "New Tutorial" {
		t.Fatalf("expected newest first, got %+v", titles(all))
	}

	tutorials, _ := svc.ListPublished(PublishedFilter{Type: db.ArticleTypeTutorial})
	if len(tutorials) != 1 {
		t.Fatalf("expected 1 tutorial, got %d", len(tutorials))
	}

	search, _ := svc.ListPublished(PublishedFilter{Query: "GARDEN"})
	if len(search) != 2 {
		t.Fatalf("expected case-insensitive match on 2 articles, got %v", titles(search))
	}

	none, _ := svc.ListPublished(PublishedFilter{Query: "100%"})
	if len(none) != 0 {
		t.Fatalf("wildcards must be literal, got %v", titles(none))
	}
}

func TestArticleRelatedSameTypeOnly(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewArticleService(gdb)

	base, _ := svc.Create(ArticleInput{Title: "Base", Status: db.ArticleStatusPublished})
	svc.Create(ArticleInput{Title: "Sibling", Status: db.ArticleStatusPublished})
	svc.Create(ArticleInput{Title: "Other type", Type: db.ArticleTypeCaseStudy, Status: db.ArticleStatusPublished})
	svc.Create(ArticleInput{Title: "Draft sibling"})

	related, err := svc.Related(base, 3)
	if err != nil {
		t.Fatalf("related: %v", err)
	}
	if len(related) != 1 || related[0].Title != "Sibling" {
		t.Fatalf("expected only the published sibling, got %v", titles(related))
	}
}

func TestArticleGetPublishedBySlug(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewArticleService(gdb)

	svc.Create(ArticleInput{Title: "Hidden"})
	if _, err := svc.GetPublishedBySlug("hidden"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("draft must not be visible, got %v", err)
	}
}

func TestEstimateReadTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tc := range cases {
		body := strings.TrimSpace(strings.Repeat("word ", tc.words))
		if got := estimateReadTime(body); got != tc.want {
			t.Fatalf("words=%d: expected %d, got %d", tc.words, tc.want, got)
		}
	}
}

func titles(articles []db.Article) []string {
	out := make([]string, len(articles))
	for i, article := range articles {
		out[i] = article.Title
	}
	return out
}
