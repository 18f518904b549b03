// Package markdown renders article bodies to sanitised HTML.
package markdown

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	engine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// 原始 HTML 会在 sanitizer 中统一清洗
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	policy = buildPolicy()
)

var (
	idPattern        = regexp.MustCompile(`^[\w:.-]+$`)
	codeClassPattern = regexp.MustCompile(`^language-[\w+#-]+$`)
	linkClassPattern = regexp.MustCompile(`^footnote-(ref|backref)$`)
	divClassPattern  = regexp.MustCompile(`^(footnotes|video-embed)$`)
	rolePattern      = regexp.MustCompile(`^doc-(noteref|endnotes|backlink)$`)
	checkboxPattern  = regexp.MustCompile(`^checkbox$`)
)

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Matching(idPattern).OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup")
	p.AllowAttrs("class").Matching(codeClassPattern).OnElements("code")
	p.AllowAttrs("class").Matching(linkClassPattern).OnElements("a")
	p.AllowAttrs("role").Matching(rolePattern).OnElements("a", "div")
	p.AllowAttrs("class").Matching(divClassPattern).OnElements("div")
	p.AllowAttrs("data-video-platform", "data-video-source").OnElements("div")

	p.AllowElements("input")
	p.AllowAttrs("type").Matching(checkboxPattern).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")

	p.AllowElements("iframe")
	p.AllowAttrs("src").Matching(embedSrcPattern).OnElements("iframe")
	p.AllowAttrs("title", "allow", "allowfullscreen", "frameborder", "loading", "referrerpolicy").OnElements("iframe")
	return p
}

// Render converts Markdown to HTML and strips anything unsafe.
func Render(body string) (template.HTML, error) {
	if strings.TrimSpace(body) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := engine.Convert([]byte(applyEmbeds(body)), &buf); err != nil {
		return "", err
	}

	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// Sanitize cleans an HTML fragment with the same policy Render uses.
func Sanitize(fragment string) template.HTML {
	return template.HTML(policy.Sanitize(fragment))
}
