package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"braces.dev/errtrace"
	"github.com/pagegloss/pagegloss/internal/asset"
	"github.com/pagegloss/pagegloss/internal/copybtn"
	"github.com/pagegloss/pagegloss/internal/dom"
	"github.com/pagegloss/pagegloss/internal/errdefer"
	"github.com/pagegloss/pagegloss/internal/markdown"
	"github.com/pagegloss/pagegloss/internal/pathx"
	"github.com/pagegloss/pagegloss/internal/typewriter"
)

// Highlighter rewrites the code blocks of a single page in place,
// returning the number of blocks it highlighted.
type Highlighter interface {
	HighlightPage(pagePath string, doc *dom.Document) int
}

var _ Highlighter = (*pageStyler)(nil)

// Injector adds a copy button to each code block of a page,
// returning the number of buttons it added.
type Injector interface {
	InjectAll(*dom.Document) int
}

var _ Injector = (*copybtn.Injector)(nil)

// Marker tags the heading a page animates on load.
type Marker interface {
	Mark(*dom.Document) bool
}

var _ Marker = (*typewriter.Marker)(nil)

// PageRenderer renders a Markdown source into a full HTML page.
type PageRenderer interface {
	Render(src []byte, fallbackTitle string) ([]byte, error)
}

var _ PageRenderer = (*markdown.Renderer)(nil)

// AssetWriter emits the client-side CSS/JS bundle.
type AssetWriter interface {
	Write(dir string) error
}

var _ AssetWriter = (*asset.Writer)(nil)

// Enhancer rewrites the pages under user-specified paths.
//
// In terms of code organization,
// Enhancer's purpose is to add a separation between main
// and the program's core logic to aid in testability.
type Enhancer struct {
	Log      *log.Logger
	DebugLog *log.Logger // optional

	// Markdown renders .md pages into HTML before enhancement.
	Markdown PageRenderer

	// Each of the following may be nil
	// to leave the corresponding enhancement out.
	Highlight Highlighter
	Inject    Injector
	Mark      Marker
	Assets    AssetWriter

	OutDir  string
	Exclude []globPattern
}

// enhanceStats tallies one Enhance run.
type enhanceStats struct {
	Pages    int
	Blocks   int
	Buttons  int
	Headings int
	Failed   int
}

// Enhance runs the enhancer over the provided input paths,
// each an HTML or Markdown file or a directory of them.
//
// Bad pages don't stop the run:
// they are reported, skipped, and counted into the returned error.
func (e *Enhancer) Enhance(inputs []string) error {
	if e.Assets != nil {
		if err := e.Assets.Write(e.OutDir); err != nil {
			return errtrace.Wrap(err)
		}
	}

	var stats enhanceStats
	for _, input := range inputs {
		if err := e.enhanceInput(&stats, input); err != nil {
			return errtrace.Wrap(err)
		}
	}

	e.Log.Printf("Enhanced %d pages: %d code blocks, %d copy buttons, %d headings",
		stats.Pages, stats.Blocks, stats.Buttons, stats.Headings)
	if stats.Failed > 0 {
		return errtrace.Wrap(fmt.Errorf("%d pages failed", stats.Failed))
	}
	return nil
}

func (e *Enhancer) enhanceInput(stats *enhanceStats, input string) error {
	info, err := os.Stat(input)
	if err != nil {
		return errtrace.Wrap(err)
	}

	if !info.IsDir() {
		e.enhancePage(stats, input, filepath.Base(input))
		return nil
	}

	outDir, err := filepath.Abs(e.OutDir)
	if err != nil {
		return errtrace.Wrap(err)
	}
	outDir = filepath.ToSlash(outDir)

	return errtrace.Wrap(filepath.WalkDir(input, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if pathx.Descends(outDir, filepath.ToSlash(abs)) {
			// Don't enhance our own output.
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !isPage(p) {
			return nil
		}

		rel, err := filepath.Rel(input, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, pat := range e.Exclude {
			if pat.Match(rel) {
				e.debugf("Skipping %v: matches %v", rel, pat)
				return nil
			}
		}

		e.enhancePage(stats, p, rel)
		return nil
	}))
}

// enhancePage enhances a single page,
// counting rather than propagating its failure
// so that one bad page cannot sink the batch.
func (e *Enhancer) enhancePage(stats *enhanceStats, srcPath, relPath string) {
	e.Log.Printf("Enhancing %v", relPath)
	if err := e.renderPage(stats, srcPath, relPath); err != nil {
		stats.Failed++
		e.Log.Printf("Skipping %v: %v", relPath, err)
	}
}

func (e *Enhancer) renderPage(stats *enhanceStats, srcPath, relPath string) (err error) {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return errtrace.Wrap(err)
	}

	if isMarkdown(srcPath) {
		title := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
		src, err = e.Markdown.Render(src, title)
		if err != nil {
			return errtrace.Wrap(fmt.Errorf("render markdown: %w", err))
		}
		relPath = strings.TrimSuffix(relPath, path.Ext(relPath)) + ".html"
	}

	doc, err := dom.Parse(bytes.NewReader(src))
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("parse: %w", err))
	}

	e.apply(stats, relPath, doc)

	outPath := filepath.Join(e.OutDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o1755); err != nil {
		return errtrace.Wrap(err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, f)

	return errtrace.Wrap(doc.Render(f))
}

// apply runs the enhancement phases on a parsed page.
// The phases are independent:
// a disabled or ineffective one never blocks the rest.
func (e *Enhancer) apply(stats *enhanceStats, relPath string, doc *dom.Document) {
	stats.Pages++

	if e.Highlight != nil {
		n := e.Highlight.HighlightPage(relPath, doc)
		stats.Blocks += n
		e.debugf("%v: highlighted %d code blocks", relPath, n)
	}

	if e.Inject != nil {
		n := e.Inject.InjectAll(doc)
		stats.Buttons += n
		e.debugf("%v: injected %d copy buttons", relPath, n)
	}

	if e.Mark != nil && e.Mark.Mark(doc) {
		stats.Headings++
	}

	if e.Assets != nil {
		asset.InjectRefs(doc, relPath)
	}
}

func (e *Enhancer) debugf(format string, args ...interface{}) {
	if e.DebugLog != nil {
		e.DebugLog.Printf(format, args...)
	}
}

func isPage(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".html", ".htm", ".md", ".markdown":
		return true
	}
	return false
}

func isMarkdown(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
