package service

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Clock 返回当前时间，测试中可替换为固定时间。
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// cleanList 去除空白项并保留原始顺序。
func cleanList(values []string) datatypes.JSONSlice[string] {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return datatypes.JSONSlice[string](cleaned)
}

func likePattern(query string) string {
	escaper := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + escaper.Replace(strings.ToLower(query)) + "%"
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
