// Package gemini provides a speech service adapter using the Gemini API
// text-to-speech models.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
)

// Ensure SpeechService implements the interface.
var _ driven.SpeechService = (*SpeechService)(nil)

// Output format of the Gemini TTS models.
const (
	SampleRate    = 24000
	Channels      = 1
	BitsPerSample = 16
)

// Config holds configuration for the Gemini speech service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the TTS model (default: domain.DefaultSpeechModel).
	Model string

	// Voice is the prebuilt voice name (default: domain.DefaultSpeechVoice).
	Voice string
}

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// SpeechService synthesises speech with Gemini.
type SpeechService struct {
	models contentGenerator
	model  string
	voice  string
}

// NewSpeechService creates a Gemini speech service.
func NewSpeechService(ctx context.Context, cfg Config) (*SpeechService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return newSpeechService(client.Models, cfg), nil
}

func newSpeechService(models contentGenerator, cfg Config) *SpeechService {
	if cfg.Model == "" {
		cfg.Model = domain.DefaultSpeechModel
	}
	if cfg.Voice == "" {
		cfg.Voice = domain.DefaultSpeechVoice
	}
	return &SpeechService{models: models, model: cfg.Model, voice: cfg.Voice}
}

// Synthesise returns 24 kHz mono 16-bit PCM for text.
func (s *SpeechService) Synthesise(ctx context.Context, text string) (driven.Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return driven.Audio{}, fmt.Errorf("%w: nothing to narrate", domain.ErrInvalidInput)
	}

	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	})
	if err != nil {
		return driven.Audio{}, fmt.Errorf("gemini: generate speech: %w", err)
	}

	pcm := audioData(resp)
	if len(pcm) == 0 {
		return driven.Audio{}, fmt.Errorf("gemini: no audio data received")
	}

	return driven.Audio{
		PCM:           pcm,
		SampleRate:    SampleRate,
		Channels:      Channels,
		BitsPerSample: BitsPerSample,
	}, nil
}

// audioData concatenates every inline data part of the first candidate.
func audioData(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var pcm []byte
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil {
			pcm = append(pcm, part.InlineData.Data...)
		}
	}
	return pcm
}

// Close releases resources.
func (s *SpeechService) Close() error {
	return nil
}
