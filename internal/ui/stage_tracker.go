// Package ui provides terminal UI components using Charm libraries.
package ui

import (
	"fmt"
	"sync"
	"time"
)

// StageTracker prints pipeline stage progress as a growing list.
//
// Each stage prints a "▶ name [n/total]" header when it begins and a
// "✓ name (duration)" or "✗ name" line when it ends.
type StageTracker struct {
	total   int
	current int
	name    string
	started time.Time

	// completed stores the names of finished stages in order.
	completed []string

	mu sync.Mutex
}

// NewStageTracker creates a tracker for a pipeline of total stages.
func NewStageTracker(total int) *StageTracker {
	return &StageTracker{total: total}
}

// Begin marks the start of the next stage.
//
// Parameters:
//   - name: Human-readable stage name
func (t *StageTracker) Begin(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current++
	t.name = name
	t.started = time.Now()

	fmt.Fprintln(writer())
	fmt.Fprintf(writer(), "%s %s\n",
		RunningStyle.Render("▶"),
		TitleStyle.Render(name)+DimStyle.Render(fmt.Sprintf(" [%d/%d]", t.current, t.total)))
}

// End marks the current stage finished.
//
// Parameters:
//   - err: The stage error, or nil on success
func (t *StageTracker) End(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.started).Round(time.Millisecond)
	if err != nil {
		fmt.Fprintln(writer(), ErrorStyle.Render("✗ "+t.name))
		return
	}
	t.completed = append(t.completed, t.name)
	fmt.Fprintln(writer(), SuccessStyle.Render("✓ "+t.name)+DimStyle.Render(fmt.Sprintf(" (%s)", elapsed)))
}

// Completed returns a copy of the finished stage names.
func (t *StageTracker) Completed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make([]string, len(t.completed))
	copy(result, t.completed)
	return result
}
