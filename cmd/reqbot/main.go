// Command reqbot is a conversational requirements elicitation assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driven/report"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/reqbot-cli/internal/core/services"
	"github.com/custodia-labs/reqbot-cli/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Startup warnings are logged before cobra parses --verbose.
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			logger.SetVerbose(true)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	dir, err := file.DefaultDir()
	if err != nil {
		return err
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	promptDir := filepath.Join(dir, "prompts")
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}
	watchPrompts(ctx, prompts, promptDir)

	aiServices := ai.Initialise(ctx, settings, prompts)
	defer aiServices.Close()
	for _, w := range aiServices.Warnings {
		logger.Warn("%s", w)
	}

	session := services.NewSessionOrchestrator(
		memory.NewRequirementStore(),
		memory.NewConversationLog(),
		aiServices.Collaborator,
		services.WithPrecedence(settings.Session.PrecedenceTable()),
		services.WithSortAfterClassify(settings.Session.SortAfterClassify),
		services.WithReportRenderer(report.NewRenderer()),
	)

	cli.SetServices(cli.Services{
		Session:  session,
		Settings: settingsService,
		Actions:  services.NewReportActionService(session),
		LogPath:  filepath.Join(dir, "reqbot.log"),
	})
	cli.SetVersion(version)
	return cli.Execute(ctx)
}

// watchPrompts reloads prompt edits for the life of ctx. Failing to watch
// only disables hot reload.
func watchPrompts(ctx context.Context, prompts *file.PromptStore, dir string) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		logger.Warn("prompt directory: %v", err)
		return
	}
	watcher, err := file.NewPromptWatcher(prompts, dir)
	if err != nil {
		logger.Warn("prompt hot reload disabled: %v", err)
		return
	}
	go func() {
		defer watcher.Close()
		watcher.Run(ctx)
	}()
}
