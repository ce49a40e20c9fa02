// Package asset ships the client-side half of the page enhancements.
//
// The embedded bundle mirrors the batch behaviors for live browsers:
// the stylesheet styles injected copy buttons and highlighted blocks,
// and the script drives button clicks and typing headings using the
// markers the batch pass left behind.
package asset

import (
	"bytes"
	"embed"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"github.com/pagegloss/pagegloss/internal/dom"
	"github.com/pagegloss/pagegloss/internal/relative"
)

// Dir is the directory under the site root that receives the bundle.
const Dir = "_"

// Attr marks the head elements that point a page at the bundle.
const Attr = "data-gloss-asset"

//go:embed static/**
var _staticFS embed.FS

var (
	_headSel = cascadia.MustCompile("head")
	_refSel  = cascadia.MustCompile("[" + Attr + "]")
)

// CSSWriter appends extra rules to the shipped stylesheet.
type CSSWriter interface {
	WriteCSS(io.Writer) error
}

// Writer dumps the embedded bundle into output sites.
type Writer struct {
	// ExtraCSS, if non-nil, appends rules to gloss.css as it is written.
	// The highlighter contributes its style classes this way.
	ExtraCSS CSSWriter
}

// Write dumps the bundle into dir, under [Dir].
func (w *Writer) Write(dir string) error {
	dir = filepath.Join(dir, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errtrace.Wrap(err)
	}

	static, err := fs.Sub(_staticFS, "static")
	if err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(fs.WalkDir(static, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == "." {
			return err
		}

		outPath := filepath.Join(dir, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		bs, err := fs.ReadFile(static, p)
		if err != nil {
			return err
		}

		if p == "gloss.css" && w.ExtraCSS != nil {
			buff := bytes.NewBuffer(bs)
			buff.WriteString("\n")
			if err := w.ExtraCSS.WriteCSS(buff); err != nil {
				return err
			}
			bs = buff.Bytes()
		}

		return os.WriteFile(outPath, bs, 0o644)
	}))
}

// InjectRefs points a page at the shipped bundle:
// a stylesheet link and a deferred script added to its head.
//
// pagePath is the page's /-separated path under the site root;
// hrefs are computed relative to it so pages work from any depth.
// Pages already pointing at the bundle are left alone;
// InjectRefs reports whether it changed the page.
func InjectRefs(doc *dom.Document, pagePath string) bool {
	if doc.First(_refSel) != nil {
		return false
	}
	head := doc.First(_headSel)
	if head == nil {
		return false
	}

	base := path.Dir(pagePath)
	if base == "." {
		base = ""
	}

	link := dom.NewElement("link")
	dom.SetAttr(link, "rel", "stylesheet")
	dom.SetAttr(link, "href", relative.Path(base, path.Join(Dir, "gloss.css")))
	dom.SetAttr(link, Attr, "")
	head.AppendChild(link)

	script := dom.NewElement("script")
	dom.SetAttr(script, "src", relative.Path(base, path.Join(Dir, "gloss.js")))
	dom.SetAttr(script, "defer", "")
	dom.SetAttr(script, Attr, "")
	head.AppendChild(script)

	return true
}
