package main

import (
	"io"
	"log"

	"braces.dev/errtrace"
	"github.com/pagegloss/pagegloss/internal/dom"
	"github.com/pagegloss/pagegloss/internal/highlight"
	"github.com/pagegloss/pagegloss/internal/memo"
	"github.com/pagegloss/pagegloss/internal/pathtree"
)

// pageStyler picks the highlighter for each page,
// honoring path-scoped -style overrides.
// All highlighters share one render cache.
type pageStyler struct {
	tree     pathtree.Root[*highlight.Highlighter]
	fallback *highlight.Highlighter
}

// newPageStyler builds a highlighter per -style flag.
// It reports an error if any flag names an unknown style.
//
// Scoped styles always render inline:
// the emitted stylesheet describes only the default style,
// so pages under an override cannot rely on its classes.
func newPageStyler(opts *params, logger *log.Logger) (*pageStyler, error) {
	cache := memo.New[string, string](opts.CacheTTL, opts.CacheSize)
	ps := pageStyler{
		fallback: &highlight.Highlighter{
			Style:      highlight.DarkStyle,
			UseClasses: !opts.Inline,
			Cache:      cache,
			Log:        logger,
		},
	}

	for _, spec := range opts.Styles {
		style, err := highlight.Lookup(spec.Name)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}

		h := highlight.Highlighter{
			Style:      style,
			UseClasses: !opts.Inline && len(spec.Path) == 0,
			Cache:      cache,
			Log:        logger,
		}
		if len(spec.Path) == 0 {
			ps.fallback = &h
		} else {
			ps.tree.Set(spec.Path, &h)
		}
	}

	return &ps, nil
}

// HighlightPage rewrites the code blocks of the page at the given path,
// returning the number of blocks it highlighted.
func (ps *pageStyler) HighlightPage(pagePath string, doc *dom.Document) int {
	return ps.highlighterFor(pagePath).Document(doc)
}

func (ps *pageStyler) highlighterFor(pagePath string) *highlight.Highlighter {
	if h, ok := ps.tree.Lookup(pagePath); ok {
		return h
	}
	return ps.fallback
}

// WriteCSS writes the stylesheet for the default style.
func (ps *pageStyler) WriteCSS(w io.Writer) error {
	return errtrace.Wrap(ps.fallback.WriteCSS(w))
}
