// Package cli provides the reqbot command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/reqbot-cli/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services wired in by main before Execute.
var (
	sessionService  driving.SessionService
	settingsService driving.SettingsService
	actionService   driving.ReportActionService

	// logPath receives logs while the TUI owns the terminal.
	logPath string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "reqbot",
	Short: "Elicit software requirements by chatting with an LLM",
	Long: `ReqBot is a requirements elicitation assistant.

Describe your application idea and ReqBot drafts a requirement list, asks
follow-up questions, classifies requirements, writes user stories,
identifies stakeholders and exports a report.

Run 'reqbot chat' for the interactive session or 'reqbot settings llm' to
configure a model provider first.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// Services bundles the driving ports used by commands.
type Services struct {
	Session  driving.SessionService
	Settings driving.SettingsService
	Actions  driving.ReportActionService
	LogPath  string
}

// SetServices wires the services used by commands.
func SetServices(s Services) {
	sessionService = s.Session
	settingsService = s.Settings
	actionService = s.Actions
	logPath = s.LogPath
}

// SetVersion sets the version reported by 'reqbot version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Commands see ctx through cmd.Context().
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
