package collaborator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driven/speech/wav"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
)

// mockLLM records the last chat and answers with ChatFunc.
type mockLLM struct {
	ChatFunc func(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error)

	messages []driven.ChatMessage
	opts     driven.ChatOptions
	calls    int
}

func (m *mockLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return "", errors.New("not used")
}

func (m *mockLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	m.opts = opts
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages, opts)
	}
	return "{}", nil
}

func (m *mockLLM) ModelName() string          { return "mock" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

func answer(text string) func(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return func(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
		return text, nil
	}
}

// mapPrompts serves prompts from a map.
type mapPrompts map[string]string

func (m mapPrompts) Load(name string) (string, error) {
	p, ok := m[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt: %s", name)
	}
	return p, nil
}

func (m mapPrompts) Reload() {}

func testPrompts() mapPrompts {
	return mapPrompts{
		driven.PromptSystem:              "You are ReqBot.",
		driven.PromptConversation:        "Keep eliciting.",
		driven.PromptClassify:            "Classify: %s",
		driven.PromptUserStories:         "Stories for: %s",
		driven.PromptStakeholders:        "Stakeholders of: %s",
		driven.PromptInitialRequirements: "Idea: %s",
		driven.PromptImprove:             "Improve: %s",
	}
}

type mockSpeech struct {
	text  string
	audio driven.Audio
	err   error
}

func (m *mockSpeech) Synthesise(_ context.Context, text string) (driven.Audio, error) {
	m.text = text
	return m.audio, m.err
}

func (m *mockSpeech) Close() error { return nil }

func TestCollaborator_Classify(t *testing.T) {
	llm := &mockLLM{ChatFunc: answer("```json\n" +
		`{"classifiedRequirements":[{"requirement":"Login","type":"Domain"},{"requirement":"Fast","type":"quality"}]}` +
		"\n```")}
	c := New(llm, testPrompts(), nil, Config{})

	got, err := c.Classify(context.Background(), []string{"Login", "Fast"})

	require.NoError(t, err)
	assert.Equal(t, []domain.ClassifiedRequirement{{Requirement: "Login", Type: domain.RequirementTypeDomain}}, got)

	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.Equal(t, "You are ReqBot.", llm.messages[0].Content)
	assert.True(t, strings.HasPrefix(llm.messages[1].Content, `Classify: ["Login","Fast"]`))
	assert.Contains(t, llm.messages[1].Content, "classifiedRequirements")
	assert.Contains(t, llm.messages[1].Content, "non-functional")
	assert.True(t, llm.opts.JSON)
	assert.Equal(t, DefaultTemperature, llm.opts.Temperature)
}

func TestCollaborator_Classify_AllInvalid(t *testing.T) {
	llm := &mockLLM{ChatFunc: answer(`{"classifiedRequirements":[{"requirement":"Login","type":"unknown"}]}`)}
	c := New(llm, testPrompts(), nil, Config{})

	_, err := c.Classify(context.Background(), []string{"Login"})

	assert.ErrorIs(t, err, domain.ErrResponseShape)
}

func TestCollaborator_ResponseShapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no object", "I cannot help with that."},
		{"broken object", `{"classifiedRequirements": [`},
		{"wrong field type", `{"classifiedRequirements": "Login"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&mockLLM{ChatFunc: answer(tt.response)}, testPrompts(), nil, Config{})

			_, err := c.Classify(context.Background(), []string{"Login"})

			assert.ErrorIs(t, err, domain.ErrResponseShape)
			assert.NotErrorIs(t, err, domain.ErrCollaborator)
		})
	}
}

func TestCollaborator_LLMFailure(t *testing.T) {
	llm := &mockLLM{ChatFunc: func(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
		return "", errors.New("connection refused")
	}}
	c := New(llm, testPrompts(), nil, Config{})

	_, err := c.IdentifyStakeholders(context.Background(), []string{"Login"})

	assert.ErrorIs(t, err, domain.ErrCollaborator)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCollaborator_MissingPrompt(t *testing.T) {
	prompts := testPrompts()
	delete(prompts, driven.PromptUserStories)
	llm := &mockLLM{}
	c := New(llm, prompts, nil, Config{})

	_, err := c.GenerateStories(context.Background(), []string{"Login"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), driven.PromptUserStories)
	assert.Zero(t, llm.calls)
}

func TestCollaborator_GenerateStories(t *testing.T) {
	llm := &mockLLM{ChatFunc: answer(`Here you go: {"userStories":[` +
		`{"userPersona":"shopper","feature":"log in","benefit":"see orders","acceptanceCriteria":["valid password works"]},` +
		`{"userPersona":"shopper","feature":"","benefit":"x"}]}`)}
	c := New(llm, testPrompts(), nil, Config{})

	got, err := c.GenerateStories(context.Background(), []string{"Login"})

	require.NoError(t, err)
	assert.Equal(t, []domain.UserStory{{
		UserPersona:        "shopper",
		Feature:            "log in",
		Benefit:            "see orders",
		AcceptanceCriteria: []string{"valid password works"},
	}}, got)
}

func TestCollaborator_IdentifyStakeholders(t *testing.T) {
	llm := &mockLLM{ChatFunc: answer(`{"stakeholders":[{"role":" Customer ","description":"Buys things"},{"role":""}]}`)}
	c := New(llm, testPrompts(), nil, Config{})

	got, err := c.IdentifyStakeholders(context.Background(), []string{"Login"})

	require.NoError(t, err)
	assert.Equal(t, []domain.Stakeholder{{Role: "Customer", Description: "Buys things"}}, got)
}

func TestCollaborator_GenerateInitialRequirements(t *testing.T) {
	llm := &mockLLM{ChatFunc: answer(`{"requirements":[` +
		`{"id":1,"type":"Functional","description":"Users can log in","priority":"HIGH"},` +
		`{"type":"inverse","description":"No ads","priority":"low"},` +
		`{"id":"3","type":"functional","description":"Missing priority"}]}`)}
	c := New(llm, testPrompts(), nil, Config{})

	got, err := c.GenerateInitialRequirements(context.Background(), "a shop")

	require.NoError(t, err)
	assert.Equal(t, []domain.Requirement{
		{ID: "1", Type: domain.RequirementTypeFunctional, Description: "Users can log in", Priority: domain.PriorityHigh},
		{ID: "", Type: domain.RequirementTypeInverse, Description: "No ads", Priority: domain.PriorityLow},
	}, got)
	assert.True(t, strings.HasPrefix(llm.messages[1].Content, "Idea: a shop"), "idea is passed as plain text")
}

func TestCollaborator_GenerateInitialRequirements_AllInvalid(t *testing.T) {
	llm := &mockLLM{ChatFunc: answer(`{"requirements":[{"id":"1","description":"Login"}]}`)}
	c := New(llm, testPrompts(), nil, Config{})

	_, err := c.GenerateInitialRequirements(context.Background(), "a shop")

	assert.ErrorIs(t, err, domain.ErrResponseShape)
}

func TestCollaborator_ContinueConversation(t *testing.T) {
	llm := &mockLLM{ChatFunc: answer(`{"updatedRequirements":[{"id":"1","type":"functional","description":"Login","priority":"high"}],` +
		`"followUpQuestion":" Who are the main users? "}`)}
	c := New(llm, testPrompts(), nil, Config{})

	history := []domain.HistoryEntry{
		{Role: domain.RoleAssistant, Content: domain.Greeting},
		{Role: domain.RoleUser, Content: "A shop with logins"},
	}
	got, err := c.ContinueConversation(context.Background(), history)

	require.NoError(t, err)
	assert.Equal(t, "Who are the main users?", got.FollowUpQuestion)
	assert.Equal(t, []domain.Requirement{
		{ID: "1", Type: domain.RequirementTypeFunctional, Description: "Login", Priority: domain.PriorityHigh},
	}, got.UpdatedRequirements)

	require.Len(t, llm.messages, 3)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.True(t, strings.HasPrefix(llm.messages[0].Content, "Keep eliciting."))
	assert.Contains(t, llm.messages[0].Content, "followUpQuestion")
	assert.Equal(t, driven.ChatMessage{Role: "assistant", Content: domain.Greeting}, llm.messages[1])
	assert.Equal(t, driven.ChatMessage{Role: "user", Content: "A shop with logins"}, llm.messages[2])
	assert.True(t, llm.opts.JSON)
}

func TestCollaborator_ContinueConversation_EmptyList(t *testing.T) {
	llm := &mockLLM{ChatFunc: answer(`{"updatedRequirements":[],"followUpQuestion":"Tell me more?"}`)}
	c := New(llm, testPrompts(), nil, Config{})

	got, err := c.ContinueConversation(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got.UpdatedRequirements)
	assert.Equal(t, "Tell me more?", got.FollowUpQuestion)
}

func TestCollaborator_ImproveRequirements(t *testing.T) {
	reply := "Sure! ```json\n[{\"id\":\"1\"}]\n```"
	llm := &mockLLM{ChatFunc: answer(reply)}
	c := New(llm, testPrompts(), nil, Config{})

	got, err := c.ImproveRequirements(context.Background(), "current list")

	require.NoError(t, err)
	assert.Equal(t, reply, got)
	assert.Equal(t, "Improve: current list", llm.messages[1].Content)
	assert.False(t, llm.opts.JSON)
}

func TestCollaborator_SpeakRequirements(t *testing.T) {
	speech := &mockSpeech{audio: driven.Audio{PCM: []byte{1, 0, 2, 0}, SampleRate: 24000, Channels: 1, BitsPerSample: 16}}
	c := New(&mockLLM{}, testPrompts(), speech, Config{})

	uri, err := c.SpeakRequirements(context.Background(), []domain.Requirement{
		{ID: "1", Description: "Login", Priority: domain.PriorityHigh},
		{ID: "2", Description: "Logout", Priority: domain.PriorityLow},
	})

	require.NoError(t, err)
	assert.Equal(t,
		"Here are the requirements. Requirement 1: Login (Priority: high). Requirement 2: Logout (Priority: low)",
		speech.text)
	require.True(t, strings.HasPrefix(uri, wav.DataURIPrefix))
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, wav.DataURIPrefix))
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, []byte{1, 0, 2, 0}, data[len(data)-4:])
}

func TestCollaborator_SpeakRequirements_Errors(t *testing.T) {
	t.Run("no speech service", func(t *testing.T) {
		c := New(&mockLLM{}, testPrompts(), nil, Config{})
		_, err := c.SpeakRequirements(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrSpeechUnavailable)
	})

	t.Run("synthesis failure", func(t *testing.T) {
		c := New(&mockLLM{}, testPrompts(), &mockSpeech{err: errors.New("quota")}, Config{})
		_, err := c.SpeakRequirements(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrCollaborator)
	})
}

func TestCollaborator_RateLimited(t *testing.T) {
	llm := &mockLLM{ChatFunc: answer(`{"stakeholders":[]}`)}
	c := New(llm, testPrompts(), nil, Config{RequestsPerSecond: 0.001, Burst: 1})

	_, err := c.IdentifyStakeholders(context.Background(), []string{"Login"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.IdentifyStakeholders(ctx, []string{"Login"})

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 1, llm.calls)
}

func TestNew_Defaults(t *testing.T) {
	c := New(&mockLLM{}, testPrompts(), nil, Config{})

	assert.Equal(t, 1, c.cfg.Burst)
	assert.Equal(t, DefaultTemperature, c.cfg.Temperature)
	assert.Equal(t, DefaultMaxTokens, c.cfg.MaxTokens)
}

func TestSchemaHint(t *testing.T) {
	hint := schemaHint[conversationResponse]()

	assert.Contains(t, hint, "updatedRequirements")
	assert.Contains(t, hint, `"high"`)
	assert.NotContains(t, hint, "$ref")
	assert.Equal(t, hint, schemaHintFor(&conversationResponse{}))
}

func TestDecodeObject(t *testing.T) {
	var out struct {
		A int `json:"a"`
	}
	require.NoError(t, decodeObject("prefix {\"a\": 1} suffix", &out))
	assert.Equal(t, 1, out.A)

	assert.ErrorIs(t, decodeObject("} {", &out), domain.ErrResponseShape)
}
