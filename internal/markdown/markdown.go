// Package markdown renders note and page bodies to HTML and converts
// HTML posted by rich-text editors back to Markdown.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options configures a Renderer.
type Options struct {
	// AllowRawHTML passes HTML embedded in Markdown through unescaped.
	AllowRawHTML bool
	HardWraps    bool
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds a GFM renderer (tables, strikethrough, autolinks, task lists).
func NewRenderer(opts Options) *Renderer {
	rendererOptions := []renderer.Option{}
	if opts.AllowRawHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return &Renderer{engine: goldmark.New(engineOptions...)}
}

// Render converts src to HTML ready for embedding in a template.
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	//nolint:gosec // goldmark escapes raw HTML unless AllowRawHTML is set.
	return template.HTML(buf.String()), nil
}

// htmlTagPattern matches common block and inline tags emitted by rich-text editors.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote|pre|code|table)[\s>/]`)

// ContainsHTML reports whether s looks like HTML markup.
func ContainsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// FromHTML converts editor HTML to Markdown. Input without HTML markup is
// returned unchanged.
func FromHTML(s string) (string, error) {
	if !ContainsHTML(s) {
		return s, nil
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
