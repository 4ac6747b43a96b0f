package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// settingsInput is where interactive settings commands read from.
var settingsInput io.Reader = os.Stdin

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the LLM provider, narration voice, request
throttling and requirement sort order.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider that drafts, classifies and refines requirements.`,
	RunE:  runSettingsLLM,
}

var settingsSpeechCmd = &cobra.Command{
	Use:   "speech",
	Short: "Configure narration",
	Long: `Configure the Gemini text-to-speech model used to read requirements
out loud. Narration is optional.`,
	RunE: runSettingsSpeech,
}

var settingsPrecedenceCmd = &cobra.Command{
	Use:   "precedence <type>...",
	Short: "Set requirement sort order",
	Long: `Set the order in which requirement types are listed after a report.

Types not named keep their relative order after the named ones.

Example:
  reqbot settings precedence functional non-functional domain inverse`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSettingsPrecedence,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsSpeechCmd)
	settingsCmd.AddCommand(settingsPrecedenceCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", displayKey(settings.LLM.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Speech]")
	cmd.Printf("  Provider: %s\n", settings.Speech.Provider)
	cmd.Printf("  Model: %s\n", settings.Speech.Model)
	cmd.Printf("  Voice: %s\n", settings.Speech.Voice)
	cmd.Printf("  API Key: %s\n", displayKey(settings.Speech.APIKey))
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Speech.IsConfigured()))
	cmd.Println()

	cmd.Println("[Gateway]")
	if settings.Gateway.RequestsPerSecond > 0 {
		cmd.Printf("  Requests/second: %g\n", settings.Gateway.RequestsPerSecond)
	} else {
		cmd.Printf("  Requests/second: unlimited\n")
	}
	cmd.Printf("  Burst: %d\n", settings.Gateway.Burst)
	cmd.Println()

	cmd.Println("[Session]")
	cmd.Printf("  Precedence: %s\n", joinTypes(settings.Session.Precedence))
	cmd.Printf("  Sort after classify: %t\n", settings.Session.SortAfterClassify)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'reqbot settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("ReqBot Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	reader := bufio.NewReader(settingsInput)

	cmd.Println("Step 1: Configure LLM Provider")
	cmd.Println("------------------------------")
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Configure Narration (optional)")
	cmd.Println("--------------------------------------")
	cmd.Print("Configure Gemini text-to-speech now? [y/N]: ")
	if answer := strings.ToLower(readLine(reader)); answer == "y" || answer == "yes" {
		if err := configureSpeech(cmd, reader); err != nil {
			return err
		}
	} else {
		cmd.Println("Skipped. Run 'reqbot settings speech' later to enable narration.")
		cmd.Println()
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureLLMProvider(cmd, bufio.NewReader(settingsInput))
}

func runSettingsSpeech(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureSpeech(cmd, bufio.NewReader(settingsInput))
}

func runSettingsPrecedence(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	order := make([]domain.RequirementType, len(args))
	for i, arg := range args {
		order[i] = domain.RequirementType(strings.ToLower(strings.TrimSpace(arg)))
	}
	if err := settingsService.SetPrecedence(order); err != nil {
		return fmt.Errorf("failed to set precedence: %w", err)
	}

	cmd.Printf("Requirement precedence set to: %s\n", joinTypes(order))
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readSecret(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

func configureSpeech(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Printf("Enter model name [%s]: ", domain.DefaultSpeechModel)
	model := readLine(reader)

	cmd.Printf("Enter voice [%s]: ", domain.DefaultSpeechVoice)
	voice := readLine(reader)

	cmd.Print("Enter Gemini API key: ")
	apiKey := readSecret(reader)
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required for narration")
	}

	if err := settingsService.SetSpeech(model, voice, apiKey); err != nil {
		return fmt.Errorf("failed to configure narration: %w", err)
	}
	cmd.Println("Narration configured.")
	cmd.Println()
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo when stdin is a terminal, and falls back
// to a plain line read otherwise.
func readSecret(reader *bufio.Reader) string {
	if f, ok := settingsInput.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func displayKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func joinTypes(types []domain.RequirementType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
