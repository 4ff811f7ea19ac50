package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tr2ge/devup/internal/config"
	"github.com/tr2ge/devup/internal/execx"
	"github.com/tr2ge/devup/internal/pipeline"
	"github.com/tr2ge/devup/internal/ui"
	"github.com/tr2ge/devup/internal/vcs"
	"github.com/tr2ge/devup/internal/workspace"
)

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Default()
	if err != nil {
		ui.PrintError("Invalid workspace configuration: %v", err)
		return errSetupFailed
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seq := pipeline.New(cfg, pipeline.Collaborators{
		Runner: execx.NewOSRunner(),
		Git:    vcs.NewGitCLI(),
		FS:     workspace.OSFS{},
		GOOS:   runtime.GOOS,
		Logger: log.Default(),
	})

	return execute(ctx, seq, cfg)
}

// execute runs the pipeline and reports its outcome to the console.
func execute(ctx context.Context, seq *pipeline.Sequencer, cfg *config.Config) error {
	ui.PrintBanner(version, cfg.WorkspaceRoot)

	stages := seq.Stages()
	tracker := ui.NewStageTracker(len(stages))
	hooks := pipeline.Hooks{
		OnBegin: func(s pipeline.Stage) { tracker.Begin(s.Name) },
		OnEnd:   func(_ pipeline.Stage, err error) { tracker.End(err) },
	}

	result, rc := seq.Run(ctx, hooks)
	if result.Err != nil {
		reportFailure(seq, result)
		return errSetupFailed
	}

	pipeline.PrintSummary(rc)
	ui.Println()
	ui.PrintSuccess("Workspace is up. Dev servers are running in their own terminals.")
	ui.PrintInfo("Workspace: %s", cfg.WorkspaceRoot)
	ui.PrintDim("Run %s", rc.RunID)
	return nil
}

func reportFailure(seq *pipeline.Sequencer, result *pipeline.Result) {
	ui.Println()
	if pipeline.IsPrecondition(result.Err) {
		ui.PrintErrorBox("Precondition failed", result.Err.Error())
		if hint := seq.Remediation(result.Err); hint != "" {
			ui.PrintBox("How to fix", hint)
		}
		return
	}
	ui.PrintErrorBox("Setup failed", fmt.Sprintf("Stage %s: %v", result.FailedStage, result.Err))
}
