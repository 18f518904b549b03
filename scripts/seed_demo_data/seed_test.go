package main

import (
	"testing"

	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:demo-seed?mode=memory&cache=shared"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestSeedDemoDataIsRepeatable(t *testing.T) {
	gdb := setupSeedTestDB(t)

	if err := gdb.Create(&db.Article{Title: "legacy", Slug: "legacy", Type: db.ArticleTypeEssay, Status: db.ArticleStatusDraft}).Error; err != nil {
		t.Fatalf("failed to seed legacy article: %v", err)
	}

	first, err := seedDemoData(gdb, logger.NewNop())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if first.Articles != 4 || first.Projects != 3 || first.Work != 2 || first.Skills != 22 || first.NowItems != 3 || first.Activities != 4 {
		t.Fatalf("unexpected summary: %+v", first)
	}

	var legacy int64
	gdb.Model(&db.Article{}).Where("slug = ?", "legacy").Count(&legacy)
	if legacy != 0 {
		t.Fatalf("expected existing articles to be cleared")
	}

	second, err := seedDemoData(gdb, logger.NewNop())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second.Articles != first.Articles || second.Subscribers != 3 {
		t.Fatalf("expected stable counts on re-run, got %+v", second)
	}

	var published int64
	gdb.Model(&db.Article{}).Where("status = ? AND published_at IS NOT NULL", db.ArticleStatusPublished).Count(&published)
	if published != 3 {
		t.Fatalf("expected 3 stamped published articles, got %d", published)
	}
}
