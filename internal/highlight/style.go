package highlight

import (
	"fmt"

	"braces.dev/errtrace"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DarkStyle is the default syntax highlighting style.
// It uses a muted dark palette that blends with dark documentation themes.
var DarkStyle = chroma.MustNewStyle("gloss-dark", map[chroma.TokenType]string{
	chroma.Background:      "#abb2bf bg:#282c34",
	chroma.PreWrapper:      "bg:#282c34",
	chroma.Comment:         "italic #5c6370",
	chroma.CommentPreproc:  "#e06c75",
	chroma.Keyword:         "#c678dd",
	chroma.KeywordType:     "#e5c07b",
	chroma.KeywordConstant: "#d19a66",
	chroma.Operator:        "#56b6c2",
	chroma.NameFunction:    "#61afef",
	chroma.NameClass:       "#e5c07b",
	chroma.NameBuiltin:     "#e5c07b",
	chroma.NameAttribute:   "#d19a66",
	chroma.NameTag:         "#e06c75",
	chroma.LiteralString:   "#98c379",
	chroma.LiteralNumber:   "#d19a66",
	chroma.GenericDeleted:  "#e06c75",
	chroma.GenericInserted: "#98c379",
	chroma.GenericEmph:     "italic",
	chroma.GenericStrong:   "bold",
	chroma.Error:           "#f44747",
})

// PlainStyle is a minimal syntax highlighting style for Chroma.
// It leaves most text as-is, and fades comments ever so slightly.
var PlainStyle = chroma.MustNewStyle("plain", map[chroma.TokenType]string{
	chroma.Comment:    "#666666",
	chroma.PreWrapper: "bg:#eeeeee",
	chroma.Background: "bg:#eeeeee",
})

func init() {
	styles.Register(DarkStyle)
	styles.Register(PlainStyle)
}

// Lookup finds a registered style by name.
// Unlike [styles.Get], it reports unknown names as errors
// instead of silently substituting a fallback.
func Lookup(name string) (*chroma.Style, error) {
	if s, ok := styles.Registry[name]; ok {
		return s, nil
	}
	return nil, errtrace.Wrap(fmt.Errorf("unknown style %q", name))
}
