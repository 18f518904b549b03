package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/portfolio/internal/logger"
)

// ImportDocument is the front matter accepted by the essay importer.
type ImportDocument struct {
	Title           string   `yaml:"title" toml:"title" json:"title"`
	Slug            string   `yaml:"slug" toml:"slug" json:"slug"`
	Type            string   `yaml:"type" toml:"type" json:"type"`
	Status          string   `yaml:"status" toml:"status" json:"status"`
	Excerpt         string   `yaml:"excerpt" toml:"excerpt" json:"excerpt"`
	Tags            []string `yaml:"tags" toml:"tags" json:"tags"`
	ReadTime        int      `yaml:"read_time" toml:"read_time" json:"read_time"`
	PublishedAt     string   `yaml:"published_at" toml:"published_at" json:"published_at"`
	Featured        bool     `yaml:"featured" toml:"featured" json:"featured"`
	MetaDescription string   `yaml:"meta_description" toml:"meta_description" json:"meta_description"`
	FeaturedImage   string   `yaml:"featured_image" toml:"featured_image" json:"featured_image"`
}

// ImportResult records what happened to one file.
type ImportResult struct {
	File    string
	Slug    string
	Created bool
	Skipped bool
	Err     error
}

// ImportReport summarises a directory import.
type ImportReport struct {
	Results []ImportResult
}

// Counts returns the number of created, skipped and failed files.
func (r ImportReport) Counts() (created, skipped, failed int) {
	for _, result := range r.Results {
		switch {
		case result.Created:
			created++
		case result.Skipped:
			skipped++
		default:
			failed++
		}
	}
	return created, skipped, failed
}

// ArticleImporter loads Markdown documents with front matter as articles.
type ArticleImporter struct {
	articles *ArticleService
	log      logger.Logger
}

// NewArticleImporter creates an importer writing through articles.
func NewArticleImporter(articles *ArticleService, log logger.Logger) *ArticleImporter {
	if log == nil {
		log = logger.NewNop()
	}
	return &ArticleImporter{articles: articles, log: log}
}

var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDocument splits raw into front matter and body and maps it to an article input.
func ParseDocument(raw []byte) (ArticleInput, error) {
	var doc ImportDocument
	body, err := frontmatter.Parse(bytes.NewReader(raw), &doc)
	if err != nil {
		return ArticleInput{}, fmt.Errorf("%w: front matter: %v", ErrValidation, err)
	}

	input := ArticleInput{
		Title:           doc.Title,
		Slug:            doc.Slug,
		Type:            doc.Type,
		Status:          doc.Status,
		Excerpt:         doc.Excerpt,
		Body:            strings.TrimSpace(string(body)),
		FeaturedImage:   doc.FeaturedImage,
		Tags:            doc.Tags,
		ReadTime:        doc.ReadTime,
		IsFeatured:      doc.Featured,
		MetaDescription: doc.MetaDescription,
	}

	if value := strings.TrimSpace(doc.PublishedAt); value != "" {
		publishedAt, err := parsePublishedAt(value)
		if err != nil {
			return ArticleInput{}, err
		}
		input.PublishedAt = &publishedAt
	}

	return input, nil
}

func parsePublishedAt(value string) (time.Time, error) {
	for _, layout := range publishedAtLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: published_at: unsupported time %q", ErrValidation, value)
}

// ImportFile parses and creates one article. Documents whose slug is already
// taken are reported as skipped.
func (i *ArticleImporter) ImportFile(path string) ImportResult {
	result := ImportResult{File: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	input, err := ParseDocument(raw)
	if err != nil {
		result.Err = err
		return result
	}
	if strings.TrimSpace(input.Title) == "" {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		input.Title = strings.ReplaceAll(stem, "-", " ")
	}

	article, err := i.articles.Create(input)
	switch {
	case errors.Is(err, ErrArticleSlugTaken):
		result.Skipped = true
		result.Slug = Slugify(firstNonEmpty(input.Slug, input.Title))
		i.log.Info("article import skipped", logger.String("file", path), logger.String("slug", result.Slug))
	case err != nil:
		result.Err = err
		i.log.Warn("article import failed", logger.String("file", path), logger.Error(err))
	default:
		result.Created = true
		result.Slug = article.Slug
		i.log.Info("article imported", logger.String("file", path), logger.String("slug", article.Slug))
	}
	return result
}

// ImportDir imports every *.md file of dir in name order.
func (i *ArticleImporter) ImportDir(dir string) (ImportReport, error) {
	var report ImportReport

	entries, err := os.ReadDir(dir)
	if err != nil {
		return report, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		report.Results = append(report.Results, i.ImportFile(filepath.Join(dir, name)))
	}
	return report, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
