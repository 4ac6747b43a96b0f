package domain

const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// SpeechProvider identifies a text-to-speech provider.
type SpeechProvider string

// Available speech providers.
const (
	// SpeechProviderGemini is the Gemini API text-to-speech model.
	SpeechProviderGemini SpeechProvider = "gemini"
)

// IsValid returns true if the speech provider is recognised.
func (p SpeechProvider) IsValid() bool {
	return p == SpeechProviderGemini
}

// String returns the string representation.
func (p SpeechProvider) String() string {
	return string(p)
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// SpeechSettings holds narration provider configuration.
type SpeechSettings struct {
	Provider SpeechProvider
	Model    string
	Voice    string
	APIKey   string
}

// IsConfigured returns true if narration can be used.
func (s SpeechSettings) IsConfigured() bool {
	return s.Provider.IsValid() && s.APIKey != ""
}

// GatewaySettings throttles calls to the collaborator.
type GatewaySettings struct {
	// RequestsPerSecond is the sustained request rate. Zero disables throttling.
	RequestsPerSecond float64

	// Burst is the number of requests allowed at once.
	Burst int
}

// SessionSettings tunes the orchestrator.
type SessionSettings struct {
	// Precedence orders requirement types when sorting.
	Precedence []RequirementType

	// SortAfterClassify re-sorts requirements after a stand-alone classification.
	SortAfterClassify bool
}

// PrecedenceTable returns the configured table, falling back to the default.
func (s SessionSettings) PrecedenceTable() TypePrecedence {
	if len(s.Precedence) == 0 {
		return DefaultTypePrecedence()
	}
	return PrecedenceFromOrder(s.Precedence)
}

// AppSettings holds all application configuration.
type AppSettings struct {
	LLM     LLMSettings
	Speech  SpeechSettings
	Gateway GatewaySettings
	Session SessionSettings
}

// DefaultAppSettings returns the default configuration.
// LLM and speech providers are left unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{},
		Speech: SpeechSettings{
			Provider: SpeechProviderGemini,
			Model:    DefaultSpeechModel,
			Voice:    DefaultSpeechVoice,
		},
		Gateway: GatewaySettings{
			RequestsPerSecond: 1,
			Burst:             3,
		},
		Session: SessionSettings{
			Precedence: AllRequirementTypes(),
		},
	}
}

// Speech defaults.
const (
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultSpeechVoice = "Algenib"
)

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
