package highlight

import (
	"bytes"
	"io"
	"log"
	"strings"
	"sync"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/andybalholm/cascadia"
	"github.com/pagegloss/pagegloss/internal/dom"
	"github.com/pagegloss/pagegloss/internal/memo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _preSel = cascadia.MustCompile("pre")

// Highlighter turns plain code blocks into highlighted HTML.
type Highlighter struct {
	// Style used for syntax highlighting of code.
	// Defaults to [DarkStyle].
	Style *chroma.Style

	// UseClasses specifies whether the highlighter
	// uses inline 'style' attributes for highlighting,
	// or classes, assuming use of an appropriate style sheet.
	UseClasses bool

	// Cache, if non-nil, memoizes rendered markup
	// so that identical blocks across pages render once.
	Cache *memo.Cache[string, string]

	// Log reports blocks that could not be highlighted.
	// If unset, such blocks are skipped silently.
	Log *log.Logger

	once      sync.Once
	formatter *chromahtml.Formatter
}

func (h *Highlighter) init() {
	h.once.Do(func() {
		h.formatter = chromahtml.New(
			chromahtml.PreventSurroundingPre(true),
			chromahtml.WithClasses(h.UseClasses),
		)
	})
}

func (h *Highlighter) style() *chroma.Style {
	if h.Style != nil {
		return h.Style
	}
	return DarkStyle
}

// WriteCSS writes the style classes for this highlighter to writer.
// If this highlighter is not using classes, WriteCSS is a no-op.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	h.init()

	if !h.UseClasses {
		return nil
	}

	return h.formatter.WriteCSS(w, h.style())
}

// Document highlights every code block in the document in place,
// returning the number of blocks it rewrote.
//
// A code block is a <pre> element with a <code> element child.
// pre elements without one are left untouched,
// and rewritten blocks keep their text content byte for byte.
// Blocks that are already highlighted are skipped,
// so a second pass over the same document changes nothing.
func (h *Highlighter) Document(doc *dom.Document) int {
	h.init()

	var n int
	for _, pre := range doc.Query(_preSel) {
		code := codeChild(pre)
		if code == nil || dom.HasClass(pre, chroma.StandardTypes[chroma.PreWrapper]) {
			continue
		}

		if err := h.block(pre, code); err != nil {
			if h.Log != nil {
				h.Log.Printf("Skipping code block: unable to highlight: %v", err)
			}
			continue
		}
		n++
	}
	return n
}

// block rewrites a single pre/code pair in place.
func (h *Highlighter) block(pre, code *html.Node) error {
	markup, err := h.render(langOf(code), dom.Text(code))
	if err != nil {
		return errtrace.Wrap(err)
	}

	nodes, err := dom.ParseFragment(markup, "code")
	if err != nil {
		return errtrace.Wrap(err)
	}

	dom.RemoveChildren(code)
	for _, node := range nodes {
		code.AppendChild(node)
	}

	// The pre wrapper class doubles as the "already highlighted" marker.
	dom.AddClass(pre, chroma.StandardTypes[chroma.PreWrapper])
	if !h.UseClasses {
		style := chromahtml.StyleEntryToCSS(h.style().Get(chroma.PreWrapper))
		dom.SetAttr(pre, "style", style)
	}
	return nil
}

// render produces highlighted markup for source,
// consulting the cache first when one is configured.
func (h *Highlighter) render(lang, source string) (string, error) {
	sty := h.style()
	key := sty.Name + "\x00" + lang + "\x00" + source
	if h.Cache != nil {
		if markup, ok := h.Cache.Get(key); ok {
			return markup, nil
		}
	}

	tokens, err := chroma.Tokenise(lexerFor(lang, source), nil, source)
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, sty, chroma.Literator(tokens...)); err != nil {
		return "", errtrace.Wrap(err)
	}

	markup := buf.String()
	if h.Cache != nil {
		h.Cache.Put(key, markup)
	}
	return markup, nil
}

// langOf extracts the language hint from a code element's class list.
// Markdown renderers emit language-NAME; lang-NAME also appears in the wild.
func langOf(code *html.Node) string {
	for _, class := range strings.Fields(dom.GetAttr(code, "class")) {
		for _, prefix := range []string{"language-", "lang-"} {
			if rest, ok := strings.CutPrefix(class, prefix); ok {
				if rest != "" {
					return rest
				}
				break // bare prefix carries no name
			}
		}
	}
	return ""
}

// codeChild returns the first code element child of pre,
// or nil if there is none.
func codeChild(pre *html.Node) *html.Node {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			return c
		}
	}
	return nil
}
