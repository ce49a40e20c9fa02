package copybtn

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/pagegloss/pagegloss/internal/clipboard"
	"github.com/pagegloss/pagegloss/internal/dom"
	"github.com/pagegloss/pagegloss/internal/iotest"
	"github.com/pagegloss/pagegloss/internal/sched"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bindOne parses a page with one code block,
// injects its button, and binds it to ctrl.
func bindOne(t *testing.T, ctrl *Controller, page string) *Button {
	t.Helper()

	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	require.Equal(t, 1, (&Injector{}).InjectAll(doc))

	btns := ctrl.Buttons(doc)
	require.Len(t, btns, 1)
	return btns[0]
}

func TestButton_Click_copiesBlockText(t *testing.T) {
	t.Parallel()

	var clip clipboard.Mem
	ctrl := &Controller{Clipboard: &clip, Scheduler: new(sched.Manual)}
	btn := bindOne(t, ctrl, `<pre><code>const answer = 42;</code></pre>`)

	require.NoError(t, btn.Click(context.Background()))

	assert.Equal(t, "const answer = 42;", clip.Last())
	assert.Equal(t, "Copied!", btn.Label())
}

func TestButton_Click_revertsAfterExactDelay(t *testing.T) {
	t.Parallel()

	clock := new(sched.Manual)
	var clip clipboard.Mem
	ctrl := &Controller{Clipboard: &clip, Scheduler: clock}
	btn := bindOne(t, ctrl, `<pre><code>x := 1</code></pre>`)

	require.NoError(t, btn.Click(context.Background()))
	require.Equal(t, "Copied!", btn.Label())

	clock.Advance(1999 * time.Millisecond)
	assert.Equal(t, "Copied!", btn.Label(), "must not revert early")

	clock.Advance(time.Millisecond)
	assert.Equal(t, "Copy", btn.Label(), "must revert at the full delay")
	assert.Zero(t, clock.Pending())
}

func TestButton_Click_restartsRevertWindow(t *testing.T) {
	t.Parallel()

	clock := new(sched.Manual)
	var clip clipboard.Mem
	ctrl := &Controller{Clipboard: &clip, Scheduler: clock}
	btn := bindOne(t, ctrl, `<pre><code>x := 1</code></pre>`)

	ctx := context.Background()
	require.NoError(t, btn.Click(ctx))
	clock.Advance(1500 * time.Millisecond)
	require.Equal(t, "Copied!", btn.Label())

	// A second click restarts the window from now.
	require.NoError(t, btn.Click(ctx))
	clock.Advance(1999 * time.Millisecond)
	assert.Equal(t, "Copied!", btn.Label())

	clock.Advance(time.Millisecond)
	assert.Equal(t, "Copy", btn.Label())

	assert.Len(t, clip.Writes(), 2)
	assert.Zero(t, clock.Pending())
}

func TestButton_Click_readsTextAtClickTime(t *testing.T) {
	t.Parallel()

	doc, err := dom.ParseString(`<pre><code>version one</code></pre>`)
	require.NoError(t, err)
	require.Equal(t, 1, (&Injector{}).InjectAll(doc))

	var clip clipboard.Mem
	ctrl := &Controller{Clipboard: &clip, Scheduler: new(sched.Manual)}
	btns := ctrl.Buttons(doc)
	require.Len(t, btns, 1)

	ctx := context.Background()
	require.NoError(t, btns[0].Click(ctx))
	assert.Equal(t, "version one", clip.Last())

	code := doc.First(_testCodeSel)
	require.NotNil(t, code)
	dom.SetText(code, "version two")

	require.NoError(t, btns[0].Click(ctx))
	assert.Equal(t, "version two", clip.Last())
}

func TestButton_Click_denied(t *testing.T) {
	t.Parallel()

	clock := new(sched.Manual)
	boom := errors.New("clipboard denied")
	ctrl := &Controller{
		Clipboard: clipboard.Func(func(context.Context, string) error {
			return boom
		}),
		Scheduler: clock,
		Log:       log.New(iotest.Writer(t), "", 0),
	}
	btn := bindOne(t, ctrl, `<pre><code>x := 1</code></pre>`)

	err := btn.Click(context.Background())
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, "Copy", btn.Label(), "denied copy must leave the idle label")
	assert.Zero(t, clock.Pending(), "denied copy must not schedule a revert")
}

func TestButton_Click_failureInsideCopiedWindow(t *testing.T) {
	t.Parallel()

	clock := new(sched.Manual)
	var clip clipboard.Mem
	var fail bool
	ctrl := &Controller{
		Clipboard: clipboard.Func(func(ctx context.Context, text string) error {
			if fail {
				return errors.New("clipboard denied")
			}
			return clip.WriteText(ctx, text)
		}),
		Scheduler: clock,
		Log:       log.New(iotest.Writer(t), "", 0),
	}
	btn := bindOne(t, ctrl, `<pre><code>x := 1</code></pre>`)

	ctx := context.Background()
	require.NoError(t, btn.Click(ctx))
	require.Equal(t, "Copied!", btn.Label())

	fail = true
	require.Error(t, btn.Click(ctx))
	assert.Equal(t, "Copy", btn.Label(), "failure must revert immediately")

	clock.Advance(2 * time.Second)
	assert.Equal(t, "Copy", btn.Label())
	assert.Zero(t, clock.Pending())
}

func TestButton_Close_cancelsRevert(t *testing.T) {
	t.Parallel()

	clock := new(sched.Manual)
	var clip clipboard.Mem
	ctrl := &Controller{Clipboard: &clip, Scheduler: clock}
	btn := bindOne(t, ctrl, `<pre><code>x := 1</code></pre>`)

	require.NoError(t, btn.Click(context.Background()))
	btn.Close()

	assert.Zero(t, clock.Pending())
	clock.Advance(2 * time.Second)
	assert.Equal(t, "Copied!", btn.Label(), "closed buttons are no longer driven")
}

func TestButton_Click_codeRemoved(t *testing.T) {
	t.Parallel()

	doc, err := dom.ParseString(`<pre><code>x := 1</code></pre>`)
	require.NoError(t, err)
	require.Equal(t, 1, (&Injector{}).InjectAll(doc))

	var clip clipboard.Mem
	ctrl := &Controller{Clipboard: &clip, Scheduler: new(sched.Manual)}
	btns := ctrl.Buttons(doc)
	require.Len(t, btns, 1)

	pre := doc.First(_testPreSel)
	code := doc.First(_testCodeSel)
	require.NotNil(t, pre)
	require.NotNil(t, code)
	pre.RemoveChild(code)

	err = btns[0].Click(context.Background())
	assert.ErrorIs(t, err, ErrNoCode)
	assert.Empty(t, clip.Writes())
	assert.Equal(t, "Copy", btns[0].Label())
}

func TestController_Buttons_documentOrder(t *testing.T) {
	t.Parallel()

	doc, err := dom.ParseString(
		`<pre><code>first block</code></pre>` +
			`<pre><code>second block</code></pre>`)
	require.NoError(t, err)
	require.Equal(t, 2, (&Injector{}).InjectAll(doc))

	var clip clipboard.Mem
	ctrl := &Controller{Clipboard: &clip, Scheduler: new(sched.Manual)}
	btns := ctrl.Buttons(doc)
	require.Len(t, btns, 2)

	ctx := context.Background()
	require.NoError(t, btns[0].Click(ctx))
	require.NoError(t, btns[1].Click(ctx))
	assert.Equal(t, []string{"first block", "second block"}, clip.Writes())
}

func TestButton_customLabelsAndDelay(t *testing.T) {
	t.Parallel()

	clock := new(sched.Manual)
	var clip clipboard.Mem
	ctrl := &Controller{
		Clipboard:   &clip,
		Scheduler:   clock,
		Label:       "Grab",
		CopiedLabel: "Got it",
		RevertAfter: 500 * time.Millisecond,
	}

	doc, err := dom.ParseString(`<pre><code>x := 1</code></pre>`)
	require.NoError(t, err)
	require.Equal(t, 1, (&Injector{Label: "Grab"}).InjectAll(doc))

	btns := ctrl.Buttons(doc)
	require.Len(t, btns, 1)
	btn := btns[0]

	require.NoError(t, btn.Click(context.Background()))
	assert.Equal(t, "Got it", btn.Label())

	clock.Advance(499 * time.Millisecond)
	assert.Equal(t, "Got it", btn.Label())
	clock.Advance(time.Millisecond)
	assert.Equal(t, "Grab", btn.Label())
}
