package services

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
)

var _ driven.Collaborator = (*mockCollaborator)(nil)

// mockCollaborator is a mock implementation of driven.Collaborator.
// Unset funcs return zero values. Calls are counted per method.
type mockCollaborator struct {
	ClassifyFunc             func(ctx context.Context, reqs []string) ([]domain.ClassifiedRequirement, error)
	GenerateStoriesFunc      func(ctx context.Context, functional []string) ([]domain.UserStory, error)
	IdentifyStakeholdersFunc func(ctx context.Context, reqs []string) ([]domain.Stakeholder, error)
	ContinueFunc             func(ctx context.Context, history []domain.HistoryEntry) (domain.ConversationUpdate, error)
	InitialFunc              func(ctx context.Context, idea string) ([]domain.Requirement, error)
	ImproveFunc              func(ctx context.Context, prompt string) (string, error)
	SpeakFunc                func(ctx context.Context, reqs []domain.Requirement) (string, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *mockCollaborator) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *mockCollaborator) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockCollaborator) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *mockCollaborator) Classify(ctx context.Context, reqs []string) ([]domain.ClassifiedRequirement, error) {
	m.record("Classify")
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, reqs)
	}
	return nil, nil
}

func (m *mockCollaborator) GenerateStories(ctx context.Context, functional []string) ([]domain.UserStory, error) {
	m.record("GenerateStories")
	if m.GenerateStoriesFunc != nil {
		return m.GenerateStoriesFunc(ctx, functional)
	}
	return nil, nil
}

func (m *mockCollaborator) IdentifyStakeholders(ctx context.Context, reqs []string) ([]domain.Stakeholder, error) {
	m.record("IdentifyStakeholders")
	if m.IdentifyStakeholdersFunc != nil {
		return m.IdentifyStakeholdersFunc(ctx, reqs)
	}
	return nil, nil
}

func (m *mockCollaborator) ContinueConversation(
	ctx context.Context,
	history []domain.HistoryEntry,
) (domain.ConversationUpdate, error) {
	m.record("ContinueConversation")
	if m.ContinueFunc != nil {
		return m.ContinueFunc(ctx, history)
	}
	return domain.ConversationUpdate{}, nil
}

func (m *mockCollaborator) GenerateInitialRequirements(ctx context.Context, idea string) ([]domain.Requirement, error) {
	m.record("GenerateInitialRequirements")
	if m.InitialFunc != nil {
		return m.InitialFunc(ctx, idea)
	}
	return nil, nil
}

func (m *mockCollaborator) ImproveRequirements(ctx context.Context, prompt string) (string, error) {
	m.record("ImproveRequirements")
	if m.ImproveFunc != nil {
		return m.ImproveFunc(ctx, prompt)
	}
	return "", nil
}

func (m *mockCollaborator) SpeakRequirements(ctx context.Context, reqs []domain.Requirement) (string, error) {
	m.record("SpeakRequirements")
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, reqs)
	}
	return "", nil
}

// mockRenderer records the last rendered report.
type mockRenderer struct {
	report domain.Report
	format domain.ReportFormat
	err    error
}

func (m *mockRenderer) Render(w io.Writer, report domain.Report, format domain.ReportFormat) error {
	m.report = report
	m.format = format
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, report.Title)
	return err
}
