package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"ollama is valid", AIProviderOllama, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"anthropic is valid", AIProviderAnthropic, true},
		{"empty string is invalid", AIProvider(""), false},
		{"unknown provider is invalid", AIProvider("gemini"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{"empty", LLMSettings{}, false},
		{"ollama without key", LLMSettings{Provider: AIProviderOllama}, true},
		{"openai without key", LLMSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", LLMSettings{Provider: AIProviderOpenAI, APIKey: "sk"}, true},
		{"invalid provider", LLMSettings{Provider: "nope", APIKey: "sk"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestSpeechSettings_IsConfigured(t *testing.T) {
	assert.False(t, SpeechSettings{Provider: SpeechProviderGemini}.IsConfigured())
	assert.True(t, SpeechSettings{Provider: SpeechProviderGemini, APIKey: "k"}.IsConfigured())
	assert.False(t, SpeechSettings{Provider: "polly", APIKey: "k"}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.False(t, s.LLM.IsConfigured())
	assert.Equal(t, SpeechProviderGemini, s.Speech.Provider)
	assert.Equal(t, "Algenib", s.Speech.Voice)
	assert.Equal(t, "gemini-2.5-flash-preview-tts", s.Speech.Model)
	require.Len(t, s.Session.Precedence, 4)
	assert.Equal(t, DefaultTypePrecedence(), s.Session.PrecedenceTable())
}

func TestSessionSettings_PrecedenceTable(t *testing.T) {
	t.Run("empty falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultTypePrecedence(), SessionSettings{}.PrecedenceTable())
	})

	t.Run("custom order", func(t *testing.T) {
		s := SessionSettings{Precedence: []RequirementType{RequirementTypeDomain, RequirementTypeFunctional}}
		table := s.PrecedenceTable()
		assert.Equal(t, 1, table.Rank(RequirementTypeDomain))
		assert.Equal(t, 2, table.Rank(RequirementTypeFunctional))
		assert.Equal(t, UnknownTypeRank, table.Rank(RequirementTypeInverse))
	})
}

func TestDefaultLLMModels(t *testing.T) {
	models := DefaultLLMModels()
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, models[p], "provider %s has no default model", p)
	}
}
