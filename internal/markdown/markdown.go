// Package markdown renders Markdown sources into standalone HTML pages
// ready for enhancement.
package markdown

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"sync"

	"braces.dev/errtrace"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

//go:embed tmpl/page.html
var _tmplFS embed.FS

var _pageTmpl = template.Must(
	template.New("page.html").ParseFS(_tmplFS, "tmpl/page.html"),
)

// Renderer converts Markdown into complete HTML pages.
//
// Fenced code blocks come out as pre/code pairs with language-* classes,
// which is exactly the shape the highlighter and the copy buttons expect.
type Renderer struct {
	once sync.Once
	md   goldmark.Markdown
}

func (r *Renderer) init() {
	r.once.Do(func() {
		r.md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		)
	})
}

// Render converts src into a complete HTML page.
// The page title is the text of the first top-level heading,
// or fallbackTitle when the source has none.
func (r *Renderer) Render(src []byte, fallbackTitle string) ([]byte, error) {
	r.init()

	var body bytes.Buffer
	if err := r.md.Convert(src, &body); err != nil {
		return nil, errtrace.Wrap(err)
	}

	title := firstHeading(src)
	if title == "" {
		title = fallbackTitle
	}

	var page bytes.Buffer
	err := _pageTmpl.Execute(&page, pageData{
		Title: title,
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return page.Bytes(), nil
}

type pageData struct {
	Title string
	Body  template.HTML
}

// firstHeading extracts the text of the first "# " heading, if any.
func firstHeading(src []byte) string {
	for _, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
