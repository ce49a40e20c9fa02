package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"github.com/pagegloss/pagegloss/internal/clipboard"
	"github.com/pagegloss/pagegloss/internal/copybtn"
	"github.com/pagegloss/pagegloss/internal/dom"
	"github.com/pagegloss/pagegloss/internal/markdown"
	"github.com/pagegloss/pagegloss/internal/sched"
	"github.com/pagegloss/pagegloss/internal/typewriter"
	"golang.org/x/term"
)

// preview enhances a single page in memory and plays the runtime
// behaviors in the terminal: the heading types out on the real clock,
// and -copy-block clicks a copy button against the system clipboard.
func (cmd *mainCmd) preview(opts *params) error {
	input := opts.Inputs[0]
	src, err := os.ReadFile(input)
	if err != nil {
		return errtrace.Wrap(err)
	}

	if isMarkdown(input) {
		title := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		src, err = new(markdown.Renderer).Render(src, title)
		if err != nil {
			return errtrace.Wrap(err)
		}
	}

	doc, err := dom.Parse(bytes.NewReader(src))
	if err != nil {
		return errtrace.Wrap(err)
	}

	if !opts.NoCopy {
		new(copybtn.Injector).InjectAll(doc)
	}

	if !opts.NoTypewriter {
		cmd.previewTyping(opts, doc)
	}

	if opts.CopyBlock > 0 {
		return errtrace.Wrap(cmd.previewCopy(opts, doc))
	}
	return nil
}

// previewTyping replays the page's heading in the terminal.
// Pages without the heading print nothing,
// and a non-terminal stdout gets the text in one piece.
func (cmd *mainCmd) previewTyping(opts *params, doc *dom.Document) {
	sel, err := cascadia.Compile(opts.Heading)
	if err != nil {
		cmd.log.Printf("Skipping typewriter: bad selector %q: %v", opts.Heading, err)
		return
	}

	heading := doc.First(sel)
	if heading == nil {
		return
	}
	text := dom.Text(heading)

	if !isTerminal(cmd.Stdout) {
		fmt.Fprintln(cmd.Stdout, text)
		return
	}

	tw := typewriter.Typewriter{
		Interval:  opts.TypeInterval,
		Scheduler: sched.System{},
	}
	anim := tw.Run(text, writerSink{cmd.Stdout})
	<-anim.Done()
	fmt.Fprintln(cmd.Stdout)
}

// previewCopy clicks the copy button of the CopyBlock'th code block
// and shows the label through its revert window.
func (cmd *mainCmd) previewCopy(opts *params, doc *dom.Document) error {
	ctrl := copybtn.Controller{
		Clipboard:   &clipboard.System{Log: cmd.log},
		Scheduler:   sched.System{},
		RevertAfter: opts.RevertAfter,
		Log:         cmd.log,
	}

	buttons := ctrl.Buttons(doc)
	if opts.CopyBlock > len(buttons) {
		return errtrace.Wrap(fmt.Errorf("-copy-block %d: page has %d copy buttons", opts.CopyBlock, len(buttons)))
	}

	b := buttons[opts.CopyBlock-1]
	defer b.Close()

	if err := b.Click(context.Background()); err != nil {
		return errtrace.Wrap(err)
	}
	fmt.Fprintf(cmd.Stdout, "Copied block %d to the clipboard. [%s]\n", opts.CopyBlock, b.Label())

	revert := opts.RevertAfter
	if revert <= 0 {
		revert = copybtn.DefaultRevertAfter
	}
	time.Sleep(revert + 50*time.Millisecond)
	fmt.Fprintf(cmd.Stdout, "[%s]\n", b.Label())
	return nil
}

// writerSink reveals typed text straight onto a terminal line.
type writerSink struct{ w io.Writer }

func (s writerSink) Clear()                {}
func (s writerSink) Append(cluster string) { io.WriteString(s.w, cluster) }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
