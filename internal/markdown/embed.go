package markdown

import (
	"fmt"
	htmlstd "html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	embedLinePattern = regexp.MustCompile(`^\s*<?(https?://\S+?)>?\s*$`)
	embedSrcPattern  = regexp.MustCompile(`^https://(?:www\.youtube(?:-nocookie)?\.com/embed/|player\.vimeo\.com/video/)`)
	embedTimePattern = regexp.MustCompile(`(?i)(\d+)(h|m|s)`)
	listIndexPattern = regexp.MustCompile(`^\d+\.\s+`)
)

type videoEmbed struct {
	Platform string
	Source   string
	EmbedURL string
}

// applyEmbeds 将单独成行的视频链接替换为 iframe，代码块、引用与列表中的链接保持原样
func applyEmbeds(body string) string {
	lines := strings.Split(body, "\n")
	fence := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			continue
		}
		if fence != "" || skipEmbedLine(line, trimmed) {
			continue
		}

		match := embedLinePattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		if embed, ok := parseEmbed(match[1]); ok {
			lines[i] = embedHTML(embed)
		}
	}

	return strings.Join(lines, "\n")
}

func fenceMarker(line string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, marker) {
			return marker
		}
	}
	return ""
}

func skipEmbedLine(raw, trimmed string) bool {
	if trimmed == "" || strings.HasPrefix(raw, "    ") || strings.HasPrefix(raw, "\t") {
		return true
	}
	for _, prefix := range []string{">", "- ", "* ", "+ "} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return listIndexPattern.MatchString(trimmed)
}

func parseEmbed(raw string) (videoEmbed, bool) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return videoEmbed{}, false
	}
	host := strings.ToLower(u.Hostname())

	switch {
	case host == "youtu.be" || isHostOrSubdomain(host, "youtube.com"):
		return youTubeEmbed(u, raw)
	case isHostOrSubdomain(host, "vimeo.com"):
		return vimeoEmbed(u, raw)
	default:
		return videoEmbed{}, false
	}
}

func youTubeEmbed(u *url.URL, source string) (videoEmbed, bool) {
	path := strings.Trim(u.Path, "/")
	var id string
	if strings.EqualFold(u.Hostname(), "youtu.be") {
		id = path
	} else {
		switch {
		case path == "watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(path, "shorts/"), strings.HasPrefix(path, "embed/"), strings.HasPrefix(path, "live/"):
			id = path[strings.Index(path, "/")+1:]
		}
	}
	id, _, _ = strings.Cut(id, "/")
	if id == "" {
		return videoEmbed{}, false
	}

	values := url.Values{}
	values.Set("rel", "0")
	values.Set("playsinline", "1")
	if start := youTubeStart(u.Query()); start > 0 {
		values.Set("start", strconv.Itoa(start))
	}

	return videoEmbed{
		Platform: "youtube",
		Source:   source,
		EmbedURL: "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id) + "?" + values.Encode(),
	}, true
}

func youTubeStart(query url.Values) int {
	value := query.Get("start")
	if value == "" {
		value = query.Get("t")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return max(seconds, 0)
	}

	total := 0
	for _, match := range embedTimePattern.FindAllStringSubmatch(value, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		switch strings.ToLower(match[2]) {
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total
}

func vimeoEmbed(u *url.URL, source string) (videoEmbed, bool) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	id := segments[len(segments)-1]
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return videoEmbed{}, false
	}
	return videoEmbed{
		Platform: "vimeo",
		Source:   source,
		EmbedURL: "https://player.vimeo.com/video/" + id,
	}, true
}

func embedHTML(embed videoEmbed) string {
	return fmt.Sprintf(
		`<div class="video-embed" data-video-platform="%s" data-video-source="%s">`+
			`<iframe src="%s" title="%s video player" loading="lazy" allow="clipboard-write; encrypted-media; picture-in-picture" allowfullscreen frameborder="0" referrerpolicy="strict-origin-when-cross-origin"></iframe>`+
			`</div>`,
		htmlstd.EscapeString(embed.Platform),
		htmlstd.EscapeString(embed.Source),
		htmlstd.EscapeString(embed.EmbedURL),
		htmlstd.EscapeString(embed.Platform),
	)
}

func isHostOrSubdomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
