package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/reqbot-cli/internal/logger"
)

// chatCmd launches the interactive session.
var chatCmd = &cobra.Command{
	Use:     "chat",
	Aliases: []string{"tui"},
	Short:   "Start an interactive requirements session",
	Long: `Launch the interactive terminal UI.

Describe your application idea in the chat. ReqBot keeps a requirement
list up to date and asks follow-up questions. Type /help for commands.

Controls:
  Enter    - Send message
  Tab      - Switch between chat and requirements
  Esc      - Menu
  Ctrl+C   - Quit

With --verbose, logs are written to the reqbot log file instead of the
terminal.`,
	RunE: runChat,
}

// runApp runs the program; tests replace it to avoid taking the terminal.
var runApp = func(app *tui.App) error {
	return app.Run()
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if sessionService == nil {
		return errors.New("session service not configured")
	}

	// The alternate screen owns the terminal, so logs go to a file.
	if logPath != "" {
		closer, ferr := logger.ToFile(logPath)
		if ferr != nil {
			return fmt.Errorf("open log file: %w", ferr)
		}
		defer closer.Close()
	} else {
		logger.SetOutput(io.Discard)
	}

	ports := tui.NewPorts(sessionService, actionService)
	ports.Settings = settingsService

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
