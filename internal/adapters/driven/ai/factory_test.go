package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// ollamaServer answers the Ollama tags endpoint with status.
func ollamaServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type staticPrompts struct{}

func (staticPrompts) Load(string) (string, error) { return "%s", nil }
func (staticPrompts) Reload()                     {}

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})

	t.Run("close with services", func(t *testing.T) {
		llm, err := CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama})
		require.NoError(t, err)
		speech, err := CreateSpeechService(context.Background(), &domain.SpeechSettings{
			Provider: domain.SpeechProviderGemini,
			APIKey:   "test-key",
		})
		require.NoError(t, err)

		result := &InitResult{LLMService: llm, SpeechService: speech}
		result.Close()
	})
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		model    string
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.LLMSettings{}, wantNil: true},
		{
			name:     "openai without key is not configured",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI},
			wantNil:  true,
		},
		{
			name:     "unknown provider is not configured",
			settings: &domain.LLMSettings{Provider: "unknown", APIKey: "test-key"},
			wantNil:  true,
		},
		{
			name:     "ollama provider creates service",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			model:    "llama3.2",
		},
		{
			name:     "openai provider creates service",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "test-key", Model: "gpt-4o-mini"},
			model:    "gpt-4o-mini",
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-3-5-haiku-latest",
			},
			model: "claude-3-5-haiku-latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.model, svc.ModelName())
		})
	}
}

func TestCreateSpeechService(t *testing.T) {
	t.Run("unconfigured returns nil", func(t *testing.T) {
		svc, err := CreateSpeechService(context.Background(), &domain.SpeechSettings{Provider: domain.SpeechProviderGemini})
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("nil settings returns nil", func(t *testing.T) {
		svc, err := CreateSpeechService(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("gemini creates service", func(t *testing.T) {
		svc, err := CreateSpeechService(context.Background(), &domain.SpeechSettings{
			Provider: domain.SpeechProviderGemini,
			APIKey:   "test-key",
		})
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.NoError(t, svc.Close())
	})
}

func TestValidateLLMConfig(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		assert.NoError(t, ValidateLLMConfig(nil))
	})

	t.Run("reachable ollama", func(t *testing.T) {
		srv := ollamaServer(t, http.StatusOK)
		err := ValidateLLMConfig(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
		assert.NoError(t, err)
	})

	t.Run("ollama error status", func(t *testing.T) {
		srv := ollamaServer(t, http.StatusInternalServerError)
		err := ValidateLLMConfig(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
		assert.Error(t, err)
	})
}

func TestCreateAndValidateLLMService(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{})
		assert.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("reachable", func(t *testing.T) {
		srv := ollamaServer(t, http.StatusOK)
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
		require.NoError(t, err)
		require.NotNil(t, svc)
		svc.Close()
	})

	t.Run("unreachable wraps ErrLLMUnavailable", func(t *testing.T) {
		srv := ollamaServer(t, http.StatusServiceUnavailable)
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
		assert.Nil(t, svc)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
		assert.Contains(t, err.Error(), "reqbot settings llm")
	})
}

func TestInitialise(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		settings := domain.DefaultAppSettings()

		result := Initialise(context.Background(), &settings, staticPrompts{})
		defer result.Close()

		assert.Nil(t, result.LLMService)
		assert.Nil(t, result.SpeechService)
		assert.Nil(t, result.Collaborator)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "no LLM provider configured")
	})

	t.Run("llm and speech configured", func(t *testing.T) {
		srv := ollamaServer(t, http.StatusOK)
		settings := domain.DefaultAppSettings()
		settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}
		settings.Speech.APIKey = "test-key"

		result := Initialise(context.Background(), &settings, staticPrompts{})
		defer result.Close()

		assert.NotNil(t, result.LLMService)
		assert.NotNil(t, result.SpeechService)
		assert.NotNil(t, result.Collaborator)
		assert.Empty(t, result.Warnings)
	})

	t.Run("unreachable llm leaves collaborator nil", func(t *testing.T) {
		srv := ollamaServer(t, http.StatusBadGateway)
		settings := domain.DefaultAppSettings()
		settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}

		result := Initialise(context.Background(), &settings, staticPrompts{})
		defer result.Close()

		assert.Nil(t, result.Collaborator)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "unreachable")
	})
}
