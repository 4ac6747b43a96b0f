package driving

import "github.com/custodia-labs/reqbot-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetSpeech configures the narration provider.
	SetSpeech(model, voice, apiKey string) error

	// SetPrecedence sets the requirement type sort order.
	SetPrecedence(order []domain.RequirementType) error

	// Validate checks that the current settings can run a session.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
