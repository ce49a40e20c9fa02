package asset

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/pagegloss/pagegloss/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_linkSel   = cascadia.MustCompile("head > link[data-gloss-asset]")
	_scriptSel = cascadia.MustCompile("head > script[data-gloss-asset]")
)

func TestWriter_Write(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var w Writer
	require.NoError(t, w.Write(dir))

	css, err := os.ReadFile(filepath.Join(dir, "_", "gloss.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".gloss-copy")

	js, err := os.ReadFile(filepath.Join(dir, "_", "gloss.js"))
	require.NoError(t, err)
	assert.Contains(t, string(js), "data-gloss-copy")
	assert.Contains(t, string(js), "data-gloss-typing")
}

type cssWriterFunc func(io.Writer) error

func (f cssWriterFunc) WriteCSS(w io.Writer) error { return f(w) }

func TestWriter_Write_extraCSS(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := Writer{
		ExtraCSS: cssWriterFunc(func(out io.Writer) error {
			_, err := io.WriteString(out, ".chroma .kd { color: #c678dd }\n")
			return err
		}),
	}
	require.NoError(t, w.Write(dir))

	css, err := os.ReadFile(filepath.Join(dir, "_", "gloss.css"))
	require.NoError(t, err)

	got := string(css)
	assert.Contains(t, got, ".gloss-copy", "bundle rules must survive")
	assert.True(t, strings.HasSuffix(got, ".chroma .kd { color: #c678dd }\n"),
		"extra rules must append at the end, got tail %q", tail(got))
}

func tail(s string) string {
	if len(s) <= 40 {
		return s
	}
	return s[len(s)-40:]
}

func TestInjectRefs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc     string
		pagePath string
		wantHref string
		wantSrc  string
	}{
		{
			desc:     "root page",
			pagePath: "index.html",
			wantHref: "_/gloss.css",
			wantSrc:  "_/gloss.js",
		},
		{
			desc:     "nested page",
			pagePath: "guide/install.html",
			wantHref: "../_/gloss.css",
			wantSrc:  "../_/gloss.js",
		},
		{
			desc:     "deeply nested page",
			pagePath: "a/b/c.html",
			wantHref: "../../_/gloss.css",
			wantSrc:  "../../_/gloss.js",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			doc, err := dom.ParseString(`<html><head><title>x</title></head><body></body></html>`)
			require.NoError(t, err)

			assert.True(t, InjectRefs(doc, tt.pagePath))

			link := doc.First(_linkSel)
			require.NotNil(t, link)
			assert.Equal(t, "stylesheet", dom.GetAttr(link, "rel"))
			assert.Equal(t, tt.wantHref, dom.GetAttr(link, "href"))

			script := doc.First(_scriptSel)
			require.NotNil(t, script)
			assert.Equal(t, tt.wantSrc, dom.GetAttr(script, "src"))
			assert.True(t, dom.HasAttr(script, "defer"))
		})
	}
}

func TestInjectRefs_idempotent(t *testing.T) {
	t.Parallel()

	doc, err := dom.ParseString(`<html><head></head><body></body></html>`)
	require.NoError(t, err)

	assert.True(t, InjectRefs(doc, "index.html"))
	assert.False(t, InjectRefs(doc, "index.html"), "second pass must not add more")
	assert.Len(t, doc.Query(_linkSel), 1)
	assert.Len(t, doc.Query(_scriptSel), 1)
}
