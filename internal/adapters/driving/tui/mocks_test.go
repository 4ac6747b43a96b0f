package tui

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
)

// MockSessionService implements driving.SessionService for testing.
type MockSessionService struct {
	mu    sync.Mutex
	Reqs  []domain.Requirement
	Log   []domain.Turn
	Calls []domain.Operation

	SpeakFunc func(ctx context.Context) (string, error)
}

var _ driving.SessionService = (*MockSessionService)(nil)

func (m *MockSessionService) record(op domain.Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, op)
}

func (m *MockSessionService) SendMessage(_ context.Context, text string) (domain.ConversationUpdate, error) {
	m.record(domain.OpSendMessage)
	m.Log = append(m.Log, domain.Turn{Role: domain.RoleUser, Content: text, Payload: domain.PlainPayload{}})
	return domain.ConversationUpdate{}, nil
}

func (m *MockSessionService) Start(_ context.Context, _ string) ([]domain.Requirement, error) {
	m.record(domain.OpStart)
	return m.Reqs, nil
}

func (m *MockSessionService) ApplyFeedback(_ context.Context, _ string) ([]domain.Requirement, error) {
	m.record(domain.OpApplyFeedback)
	return m.Reqs, nil
}

func (m *MockSessionService) Classify(context.Context) ([]domain.ClassifiedRequirement, error) {
	m.record(domain.OpClassify)
	return nil, nil
}

func (m *MockSessionService) GenerateStories(context.Context) ([]domain.UserStory, error) {
	m.record(domain.OpGenerateStories)
	return nil, nil
}

func (m *MockSessionService) IdentifyStakeholders(context.Context) ([]domain.Stakeholder, error) {
	m.record(domain.OpIdentifyStakeholders)
	return nil, nil
}

func (m *MockSessionService) GenerateReport(context.Context) (domain.Report, error) {
	m.record(domain.OpGenerateReport)
	return domain.Report{}, nil
}

func (m *MockSessionService) Speak(ctx context.Context) (string, error) {
	m.record(domain.OpSpeak)
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx)
	}
	return "data:audio/wav;base64,AAAA", nil
}

func (m *MockSessionService) EditRequirement(domain.Requirement) error {
	m.record(domain.OpEditRequirement)
	return nil
}

func (m *MockSessionService) DeleteRequirement(string) error {
	m.record(domain.OpDeleteRequirement)
	return nil
}

func (m *MockSessionService) SelectRequirement(string) error { return nil }

func (m *MockSessionService) ExportReport(io.Writer, domain.ReportFormat) error { return nil }

func (m *MockSessionService) FilterRequirements(query string) []domain.Requirement {
	return domain.FilterByDescription(m.Reqs, query)
}

func (m *MockSessionService) Snapshot() domain.SessionSnapshot {
	return domain.SessionSnapshot{Requirements: m.Reqs}
}

func (m *MockSessionService) Turns() []domain.Turn { return m.Log }

func (m *MockSessionService) Busy() bool { return false }

// MockReportActionService implements driving.ReportActionService for testing.
type MockReportActionService struct {
	Copied bool
	Played string
}

func (m *MockReportActionService) CopyReport(context.Context, domain.ReportFormat) error {
	m.Copied = true
	return nil
}

func (m *MockReportActionService) PlayAudio(_ context.Context, uri string) error {
	m.Played = uri
	return nil
}

// MockSettingsService implements the Get call of driving.SettingsService.
type MockSettingsService struct {
	driving.SettingsService

	Settings *domain.AppSettings
	GetErr   error
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	return m.Settings, m.GetErr
}
