// Package typewriter replays heading text as a typing animation.
//
// An animation captures its target's full text up front, clears the
// target, and reveals one character per tick until the text is whole
// again. Characters are grapheme clusters rather than bytes or runes,
// so flags and composed emoji appear whole instead of mid-sequence.
//
// Animations write through a [Sink], which is how the same engine
// drives both HTML nodes and terminal previews.
package typewriter

import (
	"strconv"
	"sync"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/pagegloss/pagegloss/internal/dom"
	"github.com/pagegloss/pagegloss/internal/sched"
	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
)

const (
	// DefaultInterval is the delay between revealed characters.
	DefaultInterval = 50 * time.Millisecond

	// Attr marks the heading the page script animates.
	// Its value is the reveal interval in milliseconds.
	Attr = "data-gloss-typing"
)

// Sink receives the text an animation reveals.
type Sink interface {
	// Clear empties the target before the first reveal.
	Clear()

	// Append reveals one more grapheme cluster.
	Append(cluster string)
}

// NodeSink builds a Sink that reveals text into an HTML node.
func NodeSink(n *html.Node) Sink { return nodeSink{n} }

type nodeSink struct{ n *html.Node }

func (s nodeSink) Clear()                { dom.SetText(s.n, "") }
func (s nodeSink) Append(cluster string) { dom.AppendText(s.n, cluster) }

// Typewriter builds typing animations.
type Typewriter struct {
	// Interval is the delay between revealed characters.
	// Defaults to [DefaultInterval].
	Interval time.Duration

	// Scheduler times the reveals. Required.
	Scheduler sched.Scheduler
}

// Run starts animating text into sink,
// clearing the sink before the first tick.
// The returned Animation is already done if text is empty.
func (tw *Typewriter) Run(text string, sink Sink) *Animation {
	a := &Animation{
		sink:     sink,
		clusters: clusters(text),
		interval: tw.interval(),
		sched:    tw.Scheduler,
		done:     make(chan struct{}),
	}

	sink.Clear()

	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.clusters) == 0 {
		a.finishLocked()
		return a
	}
	a.timer = a.sched.AfterFunc(a.interval, a.tick)
	return a
}

// Animate replays the node's current text as a typing animation.
//
// A nil node returns an animation that is already done,
// with nothing scheduled and nothing touched:
// pages without the target heading stay exactly as they were.
func (tw *Typewriter) Animate(node *html.Node) *Animation {
	if node == nil {
		a := &Animation{done: make(chan struct{})}
		a.finished = true
		close(a.done)
		return a
	}
	return tw.Run(dom.Text(node), NodeSink(node))
}

func (tw *Typewriter) interval() time.Duration {
	if tw.Interval > 0 {
		return tw.Interval
	}
	return DefaultInterval
}

// Animation is a running typing animation.
type Animation struct {
	sink     Sink
	clusters []string
	interval time.Duration
	sched    sched.Scheduler

	mu       sync.Mutex
	next     int
	timer    sched.Timer
	finished bool
	done     chan struct{}
}

// Done returns a channel that closes when the animation
// has revealed all of its text or has been stopped.
func (a *Animation) Done() <-chan struct{} { return a.done }

// Stop halts the animation where it is,
// leaving whatever text has been revealed so far.
// Stopping a finished animation has no effect.
func (a *Animation) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finishLocked()
}

func (a *Animation) tick() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.finished {
		return
	}

	a.sink.Append(a.clusters[a.next])
	a.next++
	if a.next == len(a.clusters) {
		a.timer = nil
		a.finishLocked()
		return
	}
	a.timer = a.sched.AfterFunc(a.interval, a.tick)
}

func (a *Animation) finishLocked() {
	if a.finished {
		return
	}
	a.finished = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	close(a.done)
}

// Mark tags the first node matching sel with the typing attribute
// the page script looks for, reporting whether a node was found.
// The configured interval rides along in milliseconds.
func Mark(doc *dom.Document, sel cascadia.Matcher, interval time.Duration) bool {
	node := doc.First(sel)
	if node == nil {
		return false
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	dom.SetAttr(node, Attr, strconv.FormatInt(interval.Milliseconds(), 10))
	return true
}

var _headingSel = cascadia.MustCompile("h1")

// Marker marks pages for animation with a fixed selector and interval.
type Marker struct {
	// Sel selects the heading to animate.
	// Defaults to the page's first h1.
	Sel cascadia.Matcher

	// Interval is the reveal delay per character.
	// Defaults to [DefaultInterval].
	Interval time.Duration
}

// Mark tags the page's target heading,
// reporting whether the page has one.
func (m *Marker) Mark(doc *dom.Document) bool {
	sel := m.Sel
	if sel == nil {
		sel = _headingSel
	}
	return Mark(doc, sel, m.Interval)
}

// clusters splits text into user-perceived characters.
func clusters(text string) []string {
	var cs []string
	state := -1
	for len(text) > 0 {
		var c string
		c, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		cs = append(cs, c)
	}
	return cs
}
