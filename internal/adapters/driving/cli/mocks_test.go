package cli

import (
	"context"
	"io"
	"testing"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
)

// withServices swaps the package services for the duration of a test.
func withServices(t *testing.T, s Services) {
	t.Helper()
	orig := Services{Session: sessionService, Settings: settingsService, Actions: actionService, LogPath: logPath}
	SetServices(s)
	t.Cleanup(func() { SetServices(orig) })
}

// mockSession implements driving.SessionService for testing.
type mockSession struct {
	StartFunc          func(ctx context.Context, idea string) ([]domain.Requirement, error)
	GenerateReportFunc func(ctx context.Context) (domain.Report, error)
	SpeakFunc          func(ctx context.Context) (string, error)
	ExportReportFunc   func(w io.Writer, format domain.ReportFormat) error
	SendMessageFunc    func(ctx context.Context, text string) (domain.ConversationUpdate, error)
	ClassifyFunc       func(ctx context.Context) ([]domain.ClassifiedRequirement, error)

	ideas []string
}

var _ driving.SessionService = (*mockSession)(nil)

func (m *mockSession) SendMessage(ctx context.Context, text string) (domain.ConversationUpdate, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, text)
	}
	return domain.ConversationUpdate{}, nil
}

func (m *mockSession) Start(ctx context.Context, idea string) ([]domain.Requirement, error) {
	m.ideas = append(m.ideas, idea)
	if m.StartFunc != nil {
		return m.StartFunc(ctx, idea)
	}
	return nil, nil
}

func (m *mockSession) ApplyFeedback(context.Context, string) ([]domain.Requirement, error) {
	return nil, nil
}

func (m *mockSession) Classify(ctx context.Context) ([]domain.ClassifiedRequirement, error) {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx)
	}
	return nil, nil
}

func (m *mockSession) GenerateStories(context.Context) ([]domain.UserStory, error) {
	return nil, nil
}

func (m *mockSession) IdentifyStakeholders(context.Context) ([]domain.Stakeholder, error) {
	return nil, nil
}

func (m *mockSession) GenerateReport(ctx context.Context) (domain.Report, error) {
	if m.GenerateReportFunc != nil {
		return m.GenerateReportFunc(ctx)
	}
	return domain.Report{}, nil
}

func (m *mockSession) Speak(ctx context.Context) (string, error) {
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx)
	}
	return "", nil
}

func (m *mockSession) EditRequirement(domain.Requirement) error { return nil }

func (m *mockSession) DeleteRequirement(string) error { return nil }

func (m *mockSession) SelectRequirement(string) error { return nil }

func (m *mockSession) ExportReport(w io.Writer, format domain.ReportFormat) error {
	if m.ExportReportFunc != nil {
		return m.ExportReportFunc(w, format)
	}
	return nil
}

func (m *mockSession) FilterRequirements(string) []domain.Requirement { return nil }

func (m *mockSession) Snapshot() domain.SessionSnapshot { return domain.SessionSnapshot{} }

func (m *mockSession) Turns() []domain.Turn { return nil }

func (m *mockSession) Busy() bool { return false }

// mockActions implements driving.ReportActionService for testing.
type mockActions struct {
	CopyErr error
	PlayErr error
	copied  domain.ReportFormat
	played  string
}

func (m *mockActions) CopyReport(_ context.Context, format domain.ReportFormat) error {
	m.copied = format
	return m.CopyErr
}

func (m *mockActions) PlayAudio(_ context.Context, uri string) error {
	m.played = uri
	return m.PlayErr
}

// mockSettings implements driving.SettingsService for testing.
type mockSettings struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
	precedence  []domain.RequirementType
}

var _ driving.SettingsService = (*mockSettings)(nil)

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultAppSettings()}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettings) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettings) SetSpeech(model, voice, apiKey string) error {
	if model != "" {
		m.settings.Speech.Model = model
	}
	if voice != "" {
		m.settings.Speech.Voice = voice
	}
	m.settings.Speech.APIKey = apiKey
	return nil
}

func (m *mockSettings) SetPrecedence(order []domain.RequirementType) error {
	for _, t := range order {
		if !t.IsValid() {
			return domain.ErrInvalidInput
		}
	}
	m.precedence = order
	return nil
}

func (m *mockSettings) Validate() error { return m.validateErr }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettings) ValidateLLMConfig() error { return m.pingErr }
