package execx

import (
	"context"
	"sync"
)

// Recorder is a Runner that records invocations instead of running them.
// It is used by tests across the module.
type Recorder struct {
	// ExitCodes maps a command's String() form to the exit code RunSync returns.
	// Commands not present exit 0.
	ExitCodes map[string]int

	// SpawnErr, when set, is returned from every SpawnDetached call.
	SpawnErr error

	mu     sync.Mutex
	runs   []Command
	spawns []Command
}

// NewRecorder creates a Recorder with the given exit codes.
func NewRecorder(exitCodes map[string]int) *Recorder {
	if exitCodes == nil {
		exitCodes = make(map[string]int)
	}
	return &Recorder{ExitCodes: exitCodes}
}

// RunSync implements Runner.
func (r *Recorder) RunSync(ctx context.Context, cmd Command) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, cmd)
	return r.ExitCodes[cmd.String()], nil
}

// SpawnDetached implements Runner.
func (r *Recorder) SpawnDetached(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spawns = append(r.spawns, cmd)
	return r.SpawnErr
}

// Runs returns a copy of the recorded RunSync calls in order.
func (r *Recorder) Runs() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.runs))
	copy(out, r.runs)
	return out
}

// Spawns returns a copy of the recorded SpawnDetached calls in order.
func (r *Recorder) Spawns() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.spawns))
	copy(out, r.spawns)
	return out
}

// RanLine reports whether a RunSync call with the given String() form was recorded.
func (r *Recorder) RanLine(line string) bool {
	for _, c := range r.Runs() {
		if c.String() == line {
			return true
		}
	}
	return false
}
