// Package clipboard provides the clipboard-write capability.
//
// Copy buttons treat the clipboard as an asynchronous, deniable platform
// operation: a write may be refused or fail outright, and callers are
// expected to recover locally rather than abort. Implementations here
// cover the real system clipboard and in-memory stand-ins for tests.
package clipboard

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable reports that no clipboard could accept the write.
var ErrUnavailable = errors.New("system clipboard unavailable")

// Clipboard writes text to a paste buffer.
type Clipboard interface {
	// WriteText requests that text replace the clipboard contents.
	// The write may be denied by the platform;
	// callers must treat a failure as recoverable.
	WriteText(ctx context.Context, text string) error
}

// Func adapts a function to the Clipboard interface.
type Func func(context.Context, string) error

var _ Clipboard = (Func)(nil)

// WriteText calls f.
func (f Func) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Mem is an in-memory Clipboard recording every write.
// It is intended for tests and dry runs.
// The zero value is ready to use and safe for concurrent use.
type Mem struct {
	mu     sync.Mutex
	writes []string
}

var _ Clipboard = (*Mem)(nil)

// WriteText records text as the newest clipboard contents.
func (m *Mem) WriteText(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, text)
	return nil
}

// Last returns the most recently written text,
// or the empty string if nothing was written.
func (m *Mem) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writes) == 0 {
		return ""
	}
	return m.writes[len(m.writes)-1]
}

// Writes returns a copy of all recorded writes, oldest first.
func (m *Mem) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}
