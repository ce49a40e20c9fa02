// Package copybtn puts copy buttons on code blocks.
//
// Injection is a static transformation: every pre element with a code
// element child gains one button. The click behavior runs wherever a
// scheduler and a clipboard exist: the bundled page script drives it
// in browsers, and [Controller] drives it in previews and tests.
package copybtn

import (
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/pagegloss/pagegloss/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// Attr marks injected buttons
	// and is the hook the page script binds to.
	Attr = "data-gloss-copy"

	// DefaultClass is the CSS class of injected buttons.
	DefaultClass = "gloss-copy"

	// DefaultLabel is the idle button label.
	DefaultLabel = "Copy"

	// DefaultCopiedLabel shows after a successful copy.
	DefaultCopiedLabel = "Copied!"

	// DefaultRevertAfter is how long the copied label shows
	// before reverting to the idle label.
	DefaultRevertAfter = 2 * time.Second
)

var _preSel = cascadia.MustCompile("pre")

// Injector adds copy buttons to the code blocks of parsed pages.
type Injector struct {
	// Class is the CSS class of injected buttons.
	// Defaults to [DefaultClass].
	Class string

	// Label is the initial label of injected buttons.
	// Defaults to [DefaultLabel].
	Label string
}

// InjectAll adds a copy button to every code block in the document,
// returning how many buttons it added.
//
// A code block is a pre element with a code element child;
// pre elements without one get no button.
// Blocks that already carry a button are left alone,
// so a second pass over the same document adds nothing.
func (inj *Injector) InjectAll(doc *dom.Document) int {
	var n int
	for _, pre := range doc.Query(_preSel) {
		if codeChild(pre) == nil || findButton(pre) != nil {
			continue
		}
		pre.AppendChild(inj.newButton())
		n++
	}
	return n
}

func (inj *Injector) newButton() *html.Node {
	class := inj.Class
	if class == "" {
		class = DefaultClass
	}
	label := inj.Label
	if label == "" {
		label = DefaultLabel
	}

	btn := dom.NewElement("button")
	dom.SetAttr(btn, "type", "button")
	dom.SetAttr(btn, "class", class)
	dom.SetAttr(btn, Attr, "")
	dom.SetText(btn, label)
	return btn
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

// findButton returns pre's injected button, or nil.
func findButton(pre *html.Node) *html.Node {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Button && dom.HasAttr(c, Attr) {
			return c
		}
	}
	return nil
}
