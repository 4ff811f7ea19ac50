// Package main provides the entry point for devup.
//
// devup bootstraps a multi-repository local development workspace in one
// command: it provisions global tools, starts the datastore, clones or pulls
// every project, installs dependencies, opens a terminal per dev server and
// finally opens the app URLs in a browser.
package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errSetupFailed is returned once the failure has already been reported.
var errSetupFailed = errors.New("setup failed")

// rootCmd runs the whole bootstrap. It takes no arguments and no flags.
var rootCmd = &cobra.Command{
	Use:   "devup",
	Short: "Bootstrap the local development workspace",
	Long: `devup prepares every project in the workspace for local development.

It installs missing global tools, starts the datastore container, clones or
updates each repository, installs dependencies, launches each dev server in
its own terminal window and opens the app URLs in your browser.

Set DEVUP_DEBUG=1 for debug logging.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugEnabled(os.Getenv("DEVUP_DEBUG")) {
			log.SetLevel(log.DebugLevel)
			log.Debug("Debug logging enabled", "version", version, "commit", commit, "built", date)
		}
	},
	RunE: runSetup,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSetupFailed) {
			log.Error("devup failed", "error", err)
		}
		os.Exit(1)
	}
}

func debugEnabled(v string) bool {
	switch v {
	case "1", "true", "TRUE", "yes":
		return true
	}
	return false
}

func main() {
	Execute()
}
