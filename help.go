package main

import (
	_ "embed"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Help is pagegloss's -h/-help flag.
// It supports retrieving help on various topics by passing in a parameter.
type Help string

// Help topics with their own pages.
const (
	// NoHelp means no help was requested.
	NoHelp Help = ""

	// DefaultHelp is the help page shown when no topic is specified.
	DefaultHelp Help = "default"

	// UsageHelp is the one-line usage summary.
	UsageHelp Help = "usage"
)

var (
	//go:embed help/default.txt
	_defaultHelp string

	//go:embed help/highlight.txt
	_highlightHelp string

	//go:embed help/copy.txt
	_copyHelp string

	//go:embed help/typewriter.txt
	_typewriterHelp string

	//go:embed help/config.txt
	_configHelp string

	_usageHelp = firstLineOf(_defaultHelp)

	_helpTopics = map[Help]string{
		"config":     _configHelp,
		"copy":       _copyHelp,
		"default":    _defaultHelp,
		"highlight":  _highlightHelp,
		"typewriter": _typewriterHelp,
		"usage":      _usageHelp,
	}
)

func firstLineOf(s string) string {
	if idx := strings.IndexRune(s, '\n'); idx >= 0 {
		s = s[:idx+1]
	}
	return s
}

// Write writes the help on this topic to the writer.
// If this topic is not known, an error is returned.
func (h Help) Write(w io.Writer) error {
	if len(h) == 0 {
		return nil
	}

	if doc, ok := _helpTopics[h]; ok {
		_, err := io.WriteString(w, doc)
		return err
	}

	topics := make([]string, 0, len(_helpTopics))
	for h := range _helpTopics {
		topics = append(topics, string(h))
	}
	sort.Strings(topics)

	return fmt.Errorf("unknown help topic %q: valid values are %q", string(h), topics)
}

var _ flag.Getter = (*Help)(nil)

// Get returns the value of the Help.
// This is to comply with the [flag.Getter] interface.
func (h *Help) Get() any {
	return *h
}

// IsBoolFlag marks this as a boolean flag
// which allows it to be used without an argument.
func (*Help) IsBoolFlag() bool {
	return true
}

// String returns the name of this topic.
func (h Help) String() string {
	return string(h)
}

// Set receives a command line value.
func (h *Help) Set(s string) error {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "true" {
		s = "default"
	}
	*h = Help(s)
	return nil
}
