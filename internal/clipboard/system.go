package clipboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"

	"braces.dev/errtrace"
	atotto "github.com/atotto/clipboard"

	"github.com/pagegloss/pagegloss/internal/linebuf"
)

// System writes to the operating system clipboard.
//
// It tries the native clipboard bindings first and falls back to
// well-known command line helpers (wl-copy, then xclip) so that
// Wayland and bare X11 sessions still work.
type System struct {
	// Log receives diagnostics from fallback helpers.
	// If unset, their output is discarded.
	Log *log.Logger

	// writeAll and fallbacks are seams for tests.
	writeAll  func(string) error
	fallbacks [][]string
}

var _ Clipboard = (*System)(nil)

var _defaultFallbacks = [][]string{
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
}

// WriteText copies text to the system clipboard.
// Returns an error wrapping [ErrUnavailable]
// when no write path succeeded.
func (s *System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return errtrace.Wrap(err)
	}

	writeAll := s.writeAll
	if writeAll == nil {
		writeAll = atotto.WriteAll
	}
	if err := writeAll(text); err == nil {
		return nil
	}

	logger := s.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	fallbacks := s.fallbacks
	if fallbacks == nil {
		fallbacks = _defaultFallbacks
	}
	for _, argv := range fallbacks {
		if err := runFallback(ctx, logger, argv, text); err != nil {
			logger.Printf("%s: %v", argv[0], err)
			continue
		}
		return nil
	}

	return errtrace.Wrap(fmt.Errorf("copy text: %w", ErrUnavailable))
}

// runFallback pipes text into a clipboard helper,
// draining its output to the logger one line at a time.
func runFallback(ctx context.Context, logger *log.Logger, argv []string, text string) error {
	out, done := linebuf.Writer(func(line []byte) {
		logger.Printf("%s", bytes.TrimSuffix(line, []byte{'\n'}))
	})
	defer done()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = out
	cmd.Stderr = out
	return errtrace.Wrap(cmd.Run())
}
