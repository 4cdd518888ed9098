package progress

import (
	"fmt"
	"sync"

	"github.com/pterm/pterm"

	"github.com/devsync/devsync/internal/category"
)

// UISink renders a live terminal view via pterm.PrefixPrinter, active only
// behind --ui (spec.md §6). Grounded on cmd/copyrc-next/pkg/state/logging.go's
// UserLogger, which pairs a pterm.Prefix per event kind with a short message;
// adapted here to devsync's Discovered/Started/Finished/Logged event shape
// instead of file-change-type events.
type UISink struct {
	mu sync.Mutex

	discovered int
	done       int
	skipped    int
	failed     int
}

// NewUISink builds a terminal UI sink.
func NewUISink() *UISink {
	return &UISink{}
}

func (u *UISink) Discovered(path string) {
	u.mu.Lock()
	u.discovered++
	u.mu.Unlock()
}

func (u *UISink) Started(path string, tag category.Tag) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "→"}).Printf("%s (%s)\n", path, tag.String())
}

func (u *UISink) Finished(path string, outcome Outcome, reason string) {
	u.mu.Lock()
	switch outcome {
	case OutcomeDone:
		u.done++
	case OutcomeSkipped:
		u.skipped++
	case OutcomeFailed:
		u.failed++
	}
	discovered, done, skipped, failed := u.discovered, u.done, u.skipped, u.failed
	u.mu.Unlock()

	switch outcome {
	case OutcomeDone:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✓"}).Println(path)
	case OutcomeSkipped:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "-"}).Printf("%s (%s)\n", path, reason)
	case OutcomeFailed:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "✗"}).Printf("%s: %s\n", path, reason)
	}

	pterm.Debug.Println(fmt.Sprintf("%d/%d done, %d skipped, %d failed", done, discovered, skipped, failed))
}

func (u *UISink) Logged(level LogLevel, message string) {
	switch level {
	case LevelWarn:
		pterm.Warning.Println(message)
	case LevelError:
		pterm.Error.Println(message)
	default:
		pterm.Debug.Println(message)
	}
}
