// Package dom implements the document capability used by page behaviors.
//
// It wraps a parsed golang.org/x/net/html tree with the small query and
// mutation surface the behaviors need: CSS selection via cascadia,
// textContent-style reads, and child/attribute edits.
//
// Queries return finite snapshots of the matches present at call time,
// never live views. Documents are not safe for concurrent mutation;
// behaviors touching disjoint elements may run from different goroutines
// as long as each mutates only elements it owns.
package dom

import (
	"io"
	"strings"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Document is a fully parsed HTML page.
//
// By the time a Document exists, the page's structure is complete:
// this is the batch equivalent of the browser's "document ready" signal.
type Document struct {
	root *html.Node
}

// Parse reads and parses a complete HTML page.
// The input's character encoding is sniffed from its contents,
// so pages in legacy encodings decode correctly.
func Parse(r io.Reader) (*Document, error) {
	cr, err := charset.NewReader(r, "")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	root, err := html.Parse(cr)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Document{root: root}, nil
}

// ParseString parses a complete HTML page held in a string.
func ParseString(s string) (*Document, error) {
	return errtrace.Wrap2(Parse(strings.NewReader(s)))
}

// Root returns the document's root node.
func (d *Document) Root() *html.Node { return d.root }

// Query returns all nodes matching the selector, in document order.
// The result is a snapshot: elements added to the tree afterward
// do not appear in it.
func (d *Document) Query(sel cascadia.Matcher) []*html.Node {
	return cascadia.QueryAll(d.root, sel)
}

// First returns the first node matching the selector,
// or nil if nothing matches.
func (d *Document) First(sel cascadia.Matcher) *html.Node {
	return cascadia.Query(d.root, sel)
}

// Render serializes the document back to HTML.
func (d *Document) Render(w io.Writer) error {
	return errtrace.Wrap(html.Render(w, d.root))
}

// Text returns the concatenated text of n and all its descendants,
// like the DOM textContent property.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// SetText replaces n's children with the single text s.
// An empty s leaves n with no children.
func SetText(n *html.Node, s string) {
	RemoveChildren(n)
	if s != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

// AppendText extends n's visible text by s,
// growing the last text child in place when there is one.
func AppendText(n *html.Node, s string) {
	if s == "" {
		return
	}
	if last := n.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += s
		return
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// RemoveChildren detaches all of n's children.
func RemoveChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// NewElement builds a detached element node for the given tag.
func NewElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// GetAttr returns the value of the named attribute,
// or the empty string if the attribute is absent.
func GetAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// SetAttr sets the named attribute, replacing any prior value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// HasClass reports whether the node's class attribute contains the class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(GetAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds a class to the node's class attribute if not already present.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	if cur := GetAttr(n, "class"); cur != "" {
		SetAttr(n, "class", cur+" "+class)
		return
	}
	SetAttr(n, "class", class)
}

// ParseFragment parses an HTML fragment as if it appeared
// inside an element with the given tag,
// returning the detached top-level nodes.
func ParseFragment(frag, contextTag string) ([]*html.Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     contextTag,
		DataAtom: atom.Lookup([]byte(contextTag)),
	}
	return errtrace.Wrap2(html.ParseFragment(strings.NewReader(frag), ctx))
}
