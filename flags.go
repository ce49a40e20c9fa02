package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pagegloss/pagegloss/internal/flagvalue"
	"github.com/peterbourgon/ff/v3"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// params holds all arguments for pagegloss.
type params struct {
	version bool
	help    Help

	Config string
	Debug  flagvalue.FileSwitch

	OutputDir string
	Exclude   []globPattern

	Styles    []styleSpec
	Inline    bool
	CacheTTL  time.Duration
	CacheSize int

	Heading      string
	TypeInterval time.Duration
	RevertAfter  time.Duration

	NoHighlight  bool
	NoCopy       bool
	NoTypewriter bool
	NoAssets     bool

	Preview   bool
	CopyBlock int

	Inputs []string
}

// cliParser parses the command line arguments for pagegloss.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("pagegloss", flag.ContinueOnError)
	flag.SetOutput(cmd.Stderr)
	flag.Usage = func() {
		DefaultHelp.Write(cmd.Stderr)
	}

	var p params

	// Filesystem:
	flag.StringVar(&p.OutputDir, "out", "_gloss", "")
	flag.Var(flagvalue.ListOf(&p.Exclude), "exclude", "")

	// Highlighting:
	flag.Var(flagvalue.ListOf(&p.Styles), "style", "")
	flag.BoolVar(&p.Inline, "inline", false, "")
	flag.DurationVar(&p.CacheTTL, "cache-ttl", 5*time.Minute, "")
	flag.IntVar(&p.CacheSize, "cache-size", 0, "")

	// Page behaviors:
	flag.StringVar(&p.Heading, "heading", "h1", "")
	flag.DurationVar(&p.TypeInterval, "type-interval", 50*time.Millisecond, "")
	flag.DurationVar(&p.RevertAfter, "revert-after", 2*time.Second, "")
	flag.BoolVar(&p.NoHighlight, "no-highlight", false, "")
	flag.BoolVar(&p.NoCopy, "no-copy", false, "")
	flag.BoolVar(&p.NoTypewriter, "no-typewriter", false, "")
	flag.BoolVar(&p.NoAssets, "no-assets", false, "")

	// Preview:
	flag.BoolVar(&p.Preview, "preview", false, "")
	flag.IntVar(&p.CopyBlock, "copy-block", 0, "")

	// Program-level:
	flag.StringVar(&p.Config, "config", "", "")
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, fset := cmd.newFlagSet()
	err := ff.Parse(fset, args,
		ff.WithEnvVarPrefix("PAGEGLOSS"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	)
	if err != nil {
		return nil, err
	}
	args = fset.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "pagegloss", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil {
			p.help = h
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	p.Inputs = args
	if len(p.Inputs) == 0 {
		fmt.Fprintln(cmd.Stderr, "Please provide at least one input path.")
		UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	if p.Preview && len(p.Inputs) > 1 {
		fmt.Fprintln(cmd.Stderr, "Preview mode takes a single page.")
		UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	if p.CopyBlock < 0 {
		fmt.Fprintln(cmd.Stderr, "-copy-block must be positive.")
		UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	return p, nil
}

// styleSpec is the value of a single -style flag:
// a highlight style name, optionally scoped to a path prefix.
type styleSpec struct {
	Path string // empty applies everywhere
	Name string
}

var _ flag.Getter = (*styleSpec)(nil)

func (ss *styleSpec) Get() any { return ss }

func (ss *styleSpec) String() string {
	if len(ss.Path) == 0 {
		return ss.Name
	}
	return fmt.Sprintf("%s=%s", ss.Path, ss.Name)
}

func (ss *styleSpec) Set(s string) error {
	name := s
	if idx := strings.IndexRune(s, '='); idx >= 0 {
		ss.Path, name = s[:idx], s[idx+1:]
	}
	if len(name) == 0 {
		return fmt.Errorf("expected form 'name' or 'path=name'")
	}

	ss.Name = name
	return nil
}

// globPattern is a glob matched against slash-separated page paths.
// '**' matches any number of path segments.
type globPattern string

var _ flag.Getter = (*globPattern)(nil)

func (gp *globPattern) Get() any { return string(*gp) }

func (gp *globPattern) String() string { return string(*gp) }

func (gp *globPattern) Set(s string) error {
	if !doublestar.ValidatePattern(s) {
		return fmt.Errorf("bad pattern %q", s)
	}
	*gp = globPattern(s)
	return nil
}

// Match reports whether the slash-separated path matches this pattern.
func (gp globPattern) Match(p string) bool {
	ok, err := doublestar.Match(string(gp), p)
	return err == nil && ok
}
