package highlight

import (
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// _langAliases maps fence names that Chroma does not register
// to the lexer that should handle them anyway.
var _langAliases = map[string]string{
	"jsonc":  "json",
	"curl":   "bash",
	"dotenv": "bash",
	"env":    "bash",
}

// lexerFor picks the lexer for a code block.
//
// A non-empty language name wins if Chroma knows it.
// Otherwise the block's contents are analyzed,
// and contents that defeat analysis fall back to plain text.
func lexerFor(lang, source string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang != "" {
		name := strings.ToLower(lang)
		if alias, ok := _langAliases[name]; ok {
			name = alias
		}
		lexer = lexers.Get(name)
	}
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
