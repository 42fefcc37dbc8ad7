// Package clipboard wraps the system clipboard and watches it for copies
// worth offering to the copy saver.
package clipboard

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"

	"github.com/julianstephens/unidash/internal/constants"
	"github.com/julianstephens/unidash/internal/logger"
)

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// System is the OS clipboard.
type System struct{}

func (System) ReadAll() (string, error) { return clipboard.ReadAll() }

func (System) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Available reports whether a clipboard utility exists on this system.
func Available() bool {
	return !clipboard.Unsupported
}

// Memory is an in-process clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
	Err  error
}

func (m *Memory) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.Err
}

func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	return nil
}

// Worth reports whether a copy is long enough to stage.
func Worth(text string) bool {
	return utf8.RuneCountInString(text) > constants.MinCopiedTextLength
}

// Preview shortens text for display.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= constants.CopiedPreviewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:constants.CopiedPreviewLength]) + "..."
}

// Watcher polls a clipboard and calls OnCopy for each new copy that is
// Worth staging. The content present when watching starts is ignored.
type Watcher struct {
	clip     Clipboard
	interval time.Duration
	onCopy   func(ctx context.Context, text string) error

	last   string
	primed bool
}

func NewWatcher(clip Clipboard, interval time.Duration, onCopy func(ctx context.Context, text string) error) *Watcher {
	if interval <= 0 {
		interval = constants.DefaultClipboardPollInterval
	}
	return &Watcher{clip: clip, interval: interval, onCopy: onCopy}
}

// Poll checks the clipboard once and reports whether a copy was staged.
func (w *Watcher) Poll(ctx context.Context) (bool, error) {
	text, err := w.clip.ReadAll()
	if err != nil {
		return false, err
	}
	if !w.primed {
		w.primed = true
		w.last = text
		return false, nil
	}
	if text == w.last {
		return false, nil
	}
	w.last = text
	if !Worth(text) {
		return false, nil
	}
	if err := w.onCopy(ctx, text); err != nil {
		return false, err
	}
	return true, nil
}

// Run polls until ctx is cancelled. Read errors are logged and polling
// continues.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log := logger.Component("clipboard")
	for {
		if _, err := w.Poll(ctx); err != nil && log != nil {
			log.Warn("Clipboard poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
