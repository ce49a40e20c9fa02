// Package highlight rewrites code blocks in HTML pages
// with syntax highlighting markup.
// It uses the Chroma library to do this work.
//
// Blocks are the usual static-site shape:
// a <pre> element with a nested <code> element,
// optionally carrying a language-* class from the Markdown renderer.
// Highlighting replaces the code element's children in place
// and tags the pre element so a second pass leaves it alone.
package highlight
