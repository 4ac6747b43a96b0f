package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keySpeechProvider    = "speech.provider"
	keySpeechModel       = "speech.model"
	keySpeechVoice       = "speech.voice"
	keySpeechAPIKey      = "speech.api_key"
	keyGatewayRPS        = "gateway.requests_per_second"
	keyGatewayBurst      = "gateway.burst"
	keySessionPrecedence = "session.precedence"
	keySessionSortAfter  = "session.sort_after_classify"
)

// Environment variables that override stored API keys.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvLLMAPIKey    = "REQBOT_LLM_API_KEY"
	EnvSpeechAPIKey = "REQBOT_SPEECH_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.firstNonEmpty(s.getenv(EnvLLMAPIKey), s.configStore.GetString(keyLLMAPIKey)),
		},
		Speech: domain.SpeechSettings{
			Provider: s.getSpeechProvider(defaults.Speech.Provider),
			Model:    s.getString(keySpeechModel, defaults.Speech.Model),
			Voice:    s.getString(keySpeechVoice, defaults.Speech.Voice),
			APIKey:   s.firstNonEmpty(s.getenv(EnvSpeechAPIKey), s.configStore.GetString(keySpeechAPIKey)),
		},
		Gateway: domain.GatewaySettings{
			RequestsPerSecond: s.getFloat(keyGatewayRPS, defaults.Gateway.RequestsPerSecond),
			Burst:             s.getInt(keyGatewayBurst, defaults.Gateway.Burst),
		},
		Session: domain.SessionSettings{
			Precedence:        s.getPrecedence(defaults.Session.Precedence),
			SortAfterClassify: s.getBool(keySessionSortAfter, defaults.Session.SortAfterClassify),
		},
	}

	return settings, nil
}

// Save persists application settings.
// API keys supplied through the environment are never written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.getenv(EnvLLMAPIKey) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keySpeechProvider, settings.Speech.Provider.String()); err != nil {
		return fmt.Errorf("save speech provider: %w", err)
	}
	if err := s.configStore.Set(keySpeechModel, settings.Speech.Model); err != nil {
		return fmt.Errorf("save speech model: %w", err)
	}
	if err := s.configStore.Set(keySpeechVoice, settings.Speech.Voice); err != nil {
		return fmt.Errorf("save speech voice: %w", err)
	}
	if settings.Speech.APIKey != "" && settings.Speech.APIKey != s.getenv(EnvSpeechAPIKey) {
		if err := s.configStore.Set(keySpeechAPIKey, settings.Speech.APIKey); err != nil {
			return fmt.Errorf("save speech api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyGatewayRPS, settings.Gateway.RequestsPerSecond); err != nil {
		return fmt.Errorf("save gateway rate: %w", err)
	}
	if err := s.configStore.Set(keyGatewayBurst, settings.Gateway.Burst); err != nil {
		return fmt.Errorf("save gateway burst: %w", err)
	}

	order := make([]string, len(settings.Session.Precedence))
	for i, t := range settings.Session.Precedence {
		order[i] = t.String()
	}
	if err := s.configStore.Set(keySessionPrecedence, order); err != nil {
		return fmt.Errorf("save session precedence: %w", err)
	}
	if err := s.configStore.Set(keySessionSortAfter, settings.Session.SortAfterClassify); err != nil {
		return fmt.Errorf("save session sort_after_classify: %w", err)
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetSpeech configures the narration provider. Empty model and voice keep
// the current values.
func (s *SettingsService) SetSpeech(model, voice, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("API key required for %s", domain.SpeechProviderGemini)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Speech.Provider = domain.SpeechProviderGemini
	if model != "" {
		settings.Speech.Model = model
	}
	if voice != "" {
		settings.Speech.Voice = voice
	}
	settings.Speech.APIKey = apiKey

	return s.Save(settings)
}

// SetPrecedence sets the requirement type sort order.
func (s *SettingsService) SetPrecedence(order []domain.RequirementType) error {
	if len(order) == 0 {
		return fmt.Errorf("%w: precedence must name at least one type", domain.ErrInvalidInput)
	}
	for _, t := range order {
		if !t.IsValid() {
			return fmt.Errorf("%w: unknown requirement type %q", domain.ErrInvalidInput, t)
		}
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Session.Precedence = order
	return s.Save(settings)
}

// Validate checks that the current settings can run a session.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: run 'reqbot settings llm' to configure a provider", domain.ErrLLMUnavailable)
	}
	if settings.Gateway.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: gateway.requests_per_second must not be negative", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getSpeechProvider(defaultVal domain.SpeechProvider) domain.SpeechProvider {
	provider := domain.SpeechProvider(s.configStore.GetString(keySpeechProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// getPrecedence ignores unknown type names. A list with no known types
// falls back to the default order.
func (s *SettingsService) getPrecedence(defaultVal []domain.RequirementType) []domain.RequirementType {
	raw := s.configStore.GetStringSlice(keySessionPrecedence)
	order := make([]domain.RequirementType, 0, len(raw))
	for _, name := range raw {
		if t := domain.RequirementType(name); t.IsValid() {
			order = append(order, t)
		}
	}
	if len(order) == 0 {
		return defaultVal
	}
	return order
}

func (s *SettingsService) firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
