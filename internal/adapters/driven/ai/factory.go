// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driven/collaborator"
	anthropicllm "github.com/custodia-labs/reqbot-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/reqbot-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/reqbot-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driven/speech/gemini"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService    driven.LLMService
	SpeechService driven.SpeechService
	Collaborator  driven.Collaborator // Nil when no LLM is available.
	Warnings      []string            // Non-fatal issues; the session runs without the failed service.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.SpeechService != nil {
		r.SpeechService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds the services a session needs from settings.
// Failures are reported as warnings so the session can still start; without
// an LLM the collaborator is nil and model-backed operations report
// domain.ErrLLMUnavailable.
func Initialise(ctx context.Context, settings *domain.AppSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{}

	llm, err := CreateAndValidateLLMService(&settings.LLM)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
	case llm == nil:
		result.Warnings = append(result.Warnings, "no LLM provider configured. Run 'reqbot settings llm' to set one up")
	default:
		result.LLMService = llm
	}

	speech, err := CreateSpeechService(ctx, &settings.Speech)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.SpeechService = speech

	if result.LLMService != nil {
		result.Collaborator = collaborator.New(result.LLMService, prompts, result.SpeechService, collaborator.Config{
			RequestsPerSecond: settings.Gateway.RequestsPerSecond,
			Burst:             settings.Gateway.Burst,
		})
	}
	return result
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'reqbot settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'reqbot settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use by the settings command to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateSpeechService creates the narration service based on settings.
// Returns nil if narration is not configured.
func CreateSpeechService(ctx context.Context, settings *domain.SpeechSettings) (driven.SpeechService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.SpeechProviderGemini:
		svc, err := gemini.NewSpeechService(ctx, gemini.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
			Voice:  settings.Voice,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrSpeechUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported speech provider: %s", settings.Provider)
	}
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
