package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"github.com/pagegloss/pagegloss/internal/asset"
	"github.com/pagegloss/pagegloss/internal/copybtn"
	"github.com/pagegloss/pagegloss/internal/markdown"
	"github.com/pagegloss/pagegloss/internal/typewriter"
)

func main() {
	cmd := mainCmd{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	log *log.Logger
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	cmd.log = log.New(cmd.Stderr, "", 0)

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	if err := cmd.run(opts); err != nil {
		cmd.log.Printf("pagegloss: %v", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(opts *params) error {
	if opts.Preview {
		return errtrace.Wrap(cmd.preview(opts))
	}

	debugw, closeDebug, err := opts.Debug.Create(cmd.Stderr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer closeDebug()

	var debugLog *log.Logger
	if opts.Debug.Bool() {
		debugLog = log.New(debugw, "", 0)
	}

	enh := Enhancer{
		Log:      cmd.log,
		DebugLog: debugLog,
		Markdown: new(markdown.Renderer),
		OutDir:   opts.OutputDir,
		Exclude:  opts.Exclude,
	}

	// A broken enhancement degrades to an absent one:
	// the page must still load with the other two in place.
	var styler *pageStyler
	if !opts.NoHighlight {
		s, err := newPageStyler(opts, cmd.log)
		if err != nil {
			cmd.log.Printf("Skipping highlighting: %v", err)
		} else {
			styler = s
			enh.Highlight = s
		}
	}
	if !opts.NoCopy {
		enh.Inject = new(copybtn.Injector)
	}
	if !opts.NoTypewriter {
		sel, err := cascadia.Compile(opts.Heading)
		if err != nil {
			cmd.log.Printf("Skipping typewriter: bad selector %q: %v", opts.Heading, err)
		} else {
			enh.Mark = &typewriter.Marker{
				Sel:      sel,
				Interval: opts.TypeInterval,
			}
		}
	}
	if !opts.NoAssets {
		w := asset.Writer{}
		if styler != nil {
			w.ExtraCSS = styler
		}
		enh.Assets = &w
	}

	return errtrace.Wrap(enh.Enhance(opts.Inputs))
}
