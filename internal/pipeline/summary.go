package pipeline

import (
	"sort"

	"github.com/tr2ge/devup/internal/ui"
)

// SummaryRows returns one row per project: name, sync, install and launch
// outcome. Projects found on disk but not configured are included.
func SummaryRows(rc *RunContext) [][]string {
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}

	for _, p := range rc.Config.Projects {
		add(p.Name)
	}
	var extra []string
	if r := rc.Reports.Install; r != nil {
		extra = append(extra, r.Installed...)
		for n := range r.Failed {
			extra = append(extra, n)
		}
	}
	if r := rc.Reports.Launch; r != nil {
		extra = append(extra, r.Skipped...)
	}
	sort.Strings(extra)
	for _, n := range extra {
		add(n)
	}

	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n, syncOutcome(rc, n), installOutcome(rc, n), launchOutcome(rc, n)})
	}
	return rows
}

// PrintSummary renders the per-project outcome table.
func PrintSummary(rc *RunContext) {
	table := ui.NewTable("PROJECT", "SYNC", "INSTALL", "LAUNCH")
	for _, row := range SummaryRows(rc) {
		table.AddRow(row...)
	}
	ui.Println()
	table.Render()

	if len(rc.Reports.BrowserFailed) > 0 {
		ui.PrintWarning("%d URL(s) could not be opened", len(rc.Reports.BrowserFailed))
	}
}

func syncOutcome(rc *RunContext, name string) string {
	r := rc.Reports.Sync
	if r == nil {
		return "-"
	}
	if _, failed := r.Failed[name]; failed {
		return "failed"
	}
	if contains(r.Cloned, name) {
		return "cloned"
	}
	if contains(r.Pulled, name) {
		return "pulled"
	}
	return "-"
}

func installOutcome(rc *RunContext, name string) string {
	r := rc.Reports.Install
	if r == nil {
		return "-"
	}
	if _, failed := r.Failed[name]; failed {
		return "failed"
	}
	if contains(r.Installed, name) {
		return "installed"
	}
	return "-"
}

func launchOutcome(rc *RunContext, name string) string {
	r := rc.Reports.Launch
	if r == nil {
		return "-"
	}
	if _, failed := r.Failed[name]; failed {
		return "failed"
	}
	if contains(r.Spawned, name) {
		return "launched"
	}
	if contains(r.Skipped, name) {
		return "no start command"
	}
	return "-"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
