package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/logger"
	"github.com/portfolio/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	var dbPath string
	var dir string
	flag.StringVar(&dbPath, "db", cfg.DatabasePath, "sqlite db path")
	flag.StringVar(&dir, "dir", "content/essays", "directory of markdown files with front matter")
	flag.Parse()

	appLog, err := logger.New(cfg.LogLevel, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer appLog.Sync()

	gdb, err := db.Init(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	importer := service.NewArticleImporter(service.NewArticleService(gdb), appLog)
	report, err := importer.ImportDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import %s: %v\n", dir, err)
		os.Exit(1)
	}

	for _, result := range report.Results {
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", result.File, result.Err)
		}
	}

	created, skipped, failed := report.Counts()
	fmt.Printf("done: created %d, skipped %d, failed %d\n", created, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
