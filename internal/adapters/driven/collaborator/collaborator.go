// Package collaborator implements the requirements flows on top of a raw
// LLM service.
package collaborator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driven/speech/wav"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/reqbot-cli/internal/logger"
)

// Ensure Collaborator implements the interface.
var _ driven.Collaborator = (*Collaborator)(nil)

// Default request settings.
const (
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 4096
)

// Config holds configuration for the collaborator.
type Config struct {
	// RequestsPerSecond caps LLM calls. Zero or less disables throttling.
	RequestsPerSecond float64

	// Burst is the number of calls allowed at once (default: 1).
	Burst int

	// Temperature is passed to every LLM call (default: DefaultTemperature).
	Temperature float64

	// MaxTokens caps each response (default: DefaultMaxTokens).
	MaxTokens int
}

// Collaborator runs each requirements flow as a prompt against an LLM and
// decodes the structured answer.
type Collaborator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	speech  driven.SpeechService
	limiter *rate.Limiter
	cfg     Config
}

// New creates a collaborator. speech may be nil, in which case narration
// fails with domain.ErrSpeechUnavailable.
func New(llm driven.LLMService, prompts driven.PromptStore, speech driven.SpeechService, cfg Config) *Collaborator {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Collaborator{
		llm:     llm,
		prompts: prompts,
		speech:  speech,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		cfg:     cfg,
	}
}

// Classify assigns a type to each requirement description.
func (c *Collaborator) Classify(ctx context.Context, requirements []string) ([]domain.ClassifiedRequirement, error) {
	var resp classifyResponse
	if err := c.generateObject(ctx, driven.PromptClassify, requirements, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.ClassifiedRequirement, 0, len(resp.ClassifiedRequirements))
	for _, item := range resp.ClassifiedRequirements {
		t := domain.RequirementType(normalise(item.Type))
		if item.Requirement == "" || !t.IsValid() {
			continue
		}
		out = append(out, domain.ClassifiedRequirement{Requirement: item.Requirement, Type: t})
	}
	if len(out) == 0 && len(resp.ClassifiedRequirements) > 0 {
		return nil, fmt.Errorf("classify: %w: no valid classifications", domain.ErrResponseShape)
	}
	return out, nil
}

// GenerateStories produces user stories for functional requirement descriptions.
func (c *Collaborator) GenerateStories(ctx context.Context, functional []string) ([]domain.UserStory, error) {
	var resp storiesResponse
	if err := c.generateObject(ctx, driven.PromptUserStories, functional, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.UserStory, 0, len(resp.UserStories))
	for _, s := range resp.UserStories {
		if strings.TrimSpace(s.Feature) == "" {
			continue
		}
		out = append(out, domain.UserStory{
			UserPersona:        strings.TrimSpace(s.UserPersona),
			Feature:            strings.TrimSpace(s.Feature),
			Benefit:            strings.TrimSpace(s.Benefit),
			AcceptanceCriteria: s.AcceptanceCriteria,
		})
	}
	return out, nil
}

// IdentifyStakeholders lists the parties interested in the requirements.
func (c *Collaborator) IdentifyStakeholders(ctx context.Context, requirements []string) ([]domain.Stakeholder, error) {
	var resp stakeholdersResponse
	if err := c.generateObject(ctx, driven.PromptStakeholders, requirements, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.Stakeholder, 0, len(resp.Stakeholders))
	for _, s := range resp.Stakeholders {
		if strings.TrimSpace(s.Role) == "" {
			continue
		}
		out = append(out, domain.Stakeholder{
			Role:        strings.TrimSpace(s.Role),
			Description: strings.TrimSpace(s.Description),
		})
	}
	return out, nil
}

// ContinueConversation sends the history as a chat with the conversation
// prompt as system message.
func (c *Collaborator) ContinueConversation(ctx context.Context, history []domain.HistoryEntry) (domain.ConversationUpdate, error) {
	system, err := c.systemPrompt(driven.PromptConversation)
	if err != nil {
		return domain.ConversationUpdate{}, err
	}

	messages := make([]driven.ChatMessage, 0, len(history)+1)
	messages = append(messages, driven.ChatMessage{
		Role:    "system",
		Content: system + schemaHint[conversationResponse](),
	})
	for _, h := range history {
		messages = append(messages, driven.ChatMessage{Role: string(h.Role), Content: h.Content})
	}

	if err := c.wait(ctx); err != nil {
		return domain.ConversationUpdate{}, err
	}
	logger.Debug("collaborator: %s chat with %d messages", driven.PromptConversation, len(messages))
	text, err := c.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		JSON:        true,
	})
	if err != nil {
		return domain.ConversationUpdate{}, fmt.Errorf("%s: %w: %w", driven.PromptConversation, domain.ErrCollaborator, err)
	}

	var resp conversationResponse
	if err := decodeObject(text, &resp); err != nil {
		return domain.ConversationUpdate{}, fmt.Errorf("%s: %w", driven.PromptConversation, err)
	}
	reqs, err := toRequirements(resp.UpdatedRequirements)
	if err != nil {
		return domain.ConversationUpdate{}, fmt.Errorf("%s: %w", driven.PromptConversation, err)
	}
	return domain.ConversationUpdate{
		UpdatedRequirements: reqs,
		FollowUpQuestion:    strings.TrimSpace(resp.FollowUpQuestion),
	}, nil
}

// GenerateInitialRequirements drafts requirements from an application idea.
func (c *Collaborator) GenerateInitialRequirements(ctx context.Context, idea string) ([]domain.Requirement, error) {
	var resp initialResponse
	if err := c.generateObject(ctx, driven.PromptInitialRequirements, idea, &resp); err != nil {
		return nil, err
	}
	reqs, err := toRequirements(resp.Requirements)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", driven.PromptInitialRequirements, err)
	}
	return reqs, nil
}

// ImproveRequirements returns the model's free-form answer untouched; the
// caller scrapes the requirement array out of it.
func (c *Collaborator) ImproveRequirements(ctx context.Context, prompt string) (string, error) {
	template, err := c.prompts.Load(driven.PromptImprove)
	if err != nil {
		return "", fmt.Errorf("load %s prompt: %w", driven.PromptImprove, err)
	}
	return c.generate(ctx, driven.PromptImprove, fmt.Sprintf(template, prompt), false)
}

// SpeakRequirements narrates the requirements and returns a WAV data URI.
func (c *Collaborator) SpeakRequirements(ctx context.Context, requirements []domain.Requirement) (string, error) {
	if c.speech == nil {
		return "", fmt.Errorf("speak: %w", domain.ErrSpeechUnavailable)
	}
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	text := NarrationText(requirements)
	logger.Debug("collaborator: synthesising %d characters", len(text))
	audio, err := c.speech.Synthesise(ctx, text)
	if err != nil {
		return "", fmt.Errorf("speak: %w: %w", domain.ErrCollaborator, err)
	}
	uri, err := wav.DataURI(audio)
	if err != nil {
		return "", fmt.Errorf("speak: %w", err)
	}
	return uri, nil
}

// NarrationText is the script read out by SpeakRequirements.
func NarrationText(requirements []domain.Requirement) string {
	parts := make([]string, len(requirements))
	for i, r := range requirements {
		parts[i] = fmt.Sprintf("Requirement %s: %s (Priority: %s)", r.ID, r.Description, r.Priority)
	}
	return "Here are the requirements. " + strings.Join(parts, ". ")
}

// generateObject formats the named prompt with the JSON-encoded input,
// appends the response schema and decodes the reply into out.
func (c *Collaborator) generateObject(ctx context.Context, name string, input any, out any) error {
	template, err := c.prompts.Load(name)
	if err != nil {
		return fmt.Errorf("load %s prompt: %w", name, err)
	}

	arg, ok := input.(string)
	if !ok {
		encoded, err := json.Marshal(input)
		if err != nil {
			return fmt.Errorf("%s: encode input: %w", name, err)
		}
		arg = string(encoded)
	}

	prompt := fmt.Sprintf(template, arg) + schemaHintFor(out)
	text, err := c.generate(ctx, name, prompt, true)
	if err != nil {
		return err
	}
	if err := decodeObject(text, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// generate runs a single-prompt completion behind the shared system prompt.
func (c *Collaborator) generate(ctx context.Context, name, prompt string, jsonMode bool) (string, error) {
	system, err := c.systemPrompt(driven.PromptSystem)
	if err != nil {
		return "", err
	}
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	logger.Debug("collaborator: %s prompt (%d bytes)", name, len(prompt))
	text, err := c.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		JSON:        jsonMode,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", name, domain.ErrCollaborator, err)
	}
	logger.Debug("collaborator: %s response (%d bytes)", name, len(text))
	return text, nil
}

func (c *Collaborator) systemPrompt(name string) (string, error) {
	prompt, err := c.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("load %s prompt: %w", name, err)
	}
	return prompt, nil
}

func (c *Collaborator) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return nil
}

// decodeObject decodes the first JSON object in text, tolerating code
// fences and prose around it.
func decodeObject(text string, out any) error {
	body := stripFences(text)
	start := strings.IndexByte(body, '{')
	end := strings.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return fmt.Errorf("%w: no JSON object found", domain.ErrResponseShape)
	}
	if err := json.Unmarshal([]byte(body[start:end+1]), out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrResponseShape, err)
	}
	return nil
}

func stripFences(resp string) string {
	resp = strings.TrimSpace(resp)
	start := strings.Index(resp, "```")
	if start < 0 {
		return resp
	}
	body := strings.TrimPrefix(resp[start+3:], "json")
	if end := strings.Index(body, "```"); end >= 0 {
		return strings.TrimSpace(body[:end])
	}
	return strings.TrimSpace(body)
}

// toRequirements keeps the elements with a description, type and priority.
// IDs may be empty; the orchestrator assigns them.
func toRequirements(items []requirementItem) ([]domain.Requirement, error) {
	out := make([]domain.Requirement, 0, len(items))
	for _, item := range items {
		r := domain.Requirement{
			ID:          string(item.ID),
			Type:        domain.RequirementType(normalise(item.Type)),
			Description: strings.TrimSpace(item.Description),
			Priority:    domain.Priority(normalise(item.Priority)),
		}
		if r.Description == "" || !r.Type.IsValid() || !r.Priority.IsValid() {
			logger.Debug("collaborator: dropping invalid requirement %q", r.Description)
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 && len(items) > 0 {
		return nil, fmt.Errorf("%w: no valid requirements", domain.ErrResponseShape)
	}
	return out, nil
}

func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
