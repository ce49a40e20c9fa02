package copybtn

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"github.com/pagegloss/pagegloss/internal/clipboard"
	"github.com/pagegloss/pagegloss/internal/dom"
	"github.com/pagegloss/pagegloss/internal/sched"
	"github.com/pagegloss/pagegloss/internal/sliceutil"
	"golang.org/x/net/html"
)

// ErrNoCode is returned by [Button.Click]
// when the block no longer has a code element to copy from.
var ErrNoCode = errors.New("no code element to copy")

var _buttonSel = cascadia.MustCompile("pre > button[" + Attr + "]")

// Controller drives injected copy buttons:
// clipboard writes on click, and the label changes that report them.
type Controller struct {
	// Clipboard receives the copied text. Required.
	Clipboard clipboard.Clipboard

	// Scheduler times the copied-label revert. Required.
	Scheduler sched.Scheduler

	// Label and CopiedLabel override the button labels.
	// They default to [DefaultLabel] and [DefaultCopiedLabel].
	Label       string
	CopiedLabel string

	// RevertAfter is how long the copied label shows.
	// Defaults to [DefaultRevertAfter].
	RevertAfter time.Duration

	// Log receives copy failures.
	// If unset, failures are reported only through Click's return value.
	Log *log.Logger
}

// Buttons binds the controller to every copy button in the document,
// in document order.
func (c *Controller) Buttons(doc *dom.Document) []*Button {
	return sliceutil.Transform(doc.Query(_buttonSel), func(node *html.Node) *Button {
		return &Button{ctrl: c, node: node, pre: node.Parent}
	})
}

// Button is one injected copy button, bound to its code block.
//
// Its methods may be called from any goroutine,
// but nothing else may mutate the button's subtree concurrently.
type Button struct {
	ctrl *Controller
	node *html.Node // button element
	pre  *html.Node // owning block

	mu    sync.Mutex
	seq   int // bumped per click so stale timers stand down
	timer sched.Timer
}

// Label returns the button's current label text.
func (b *Button) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return dom.Text(b.node)
}

// Click copies the block's current text to the clipboard.
//
// On success the label changes to the copied label,
// reverting to the idle label after the controller's revert delay.
// Clicking again within that window restarts the delay.
// On failure the label reverts immediately
// and Click returns the clipboard's error.
func (b *Button) Click(ctx context.Context) error {
	code := codeChild(b.pre)
	if code == nil {
		return errtrace.Wrap(ErrNoCode)
	}

	// Read at click time: the block may have changed since injection.
	text := dom.Text(code)
	err := b.ctrl.Clipboard.WriteText(ctx, text)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}

	if err != nil {
		dom.SetText(b.node, b.ctrl.label())
		b.ctrl.logf("Copy failed: %v", err)
		return errtrace.Wrap(err)
	}

	dom.SetText(b.node, b.ctrl.copiedLabel())
	seq := b.seq
	b.timer = b.ctrl.Scheduler.AfterFunc(b.ctrl.revertAfter(), func() {
		b.revert(seq)
	})
	return nil
}

// revert restores the idle label,
// unless another click superseded the timer that fired.
func (b *Button) revert(seq int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.seq != seq {
		return
	}
	b.timer = nil
	dom.SetText(b.node, b.ctrl.label())
}

// Close cancels any pending label revert.
// The label is left as it was.
func (b *Button) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (c *Controller) label() string {
	if c.Label != "" {
		return c.Label
	}
	return DefaultLabel
}

func (c *Controller) copiedLabel() string {
	if c.CopiedLabel != "" {
		return c.CopiedLabel
	}
	return DefaultCopiedLabel
}

func (c *Controller) revertAfter() time.Duration {
	if c.RevertAfter > 0 {
		return c.RevertAfter
	}
	return DefaultRevertAfter
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.Log != nil {
		c.Log.Printf(format, args...)
	}
}
