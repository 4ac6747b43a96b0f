package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
)

// mockSession is a mock implementation of driving.SessionService.
// Methods not overridden panic through the nil embedded interface.
type mockSession struct {
	driving.SessionService

	snapshot domain.SessionSnapshot
	turns    []domain.Turn
	report   string
	err      error

	update     domain.ConversationUpdate
	reqs       []domain.Requirement
	classified []domain.ClassifiedRequirement
	stories    []domain.UserStory
	holders    []domain.Stakeholder

	edited  *domain.Requirement
	deleted string
	inputs  []string
}

func (m *mockSession) SendMessage(_ context.Context, text string) (domain.ConversationUpdate, error) {
	m.inputs = append(m.inputs, text)
	return m.update, m.err
}

func (m *mockSession) Start(_ context.Context, idea string) ([]domain.Requirement, error) {
	m.inputs = append(m.inputs, idea)
	return m.reqs, m.err
}

func (m *mockSession) ApplyFeedback(_ context.Context, feedback string) ([]domain.Requirement, error) {
	m.inputs = append(m.inputs, feedback)
	return m.reqs, m.err
}

func (m *mockSession) Classify(context.Context) ([]domain.ClassifiedRequirement, error) {
	return m.classified, m.err
}

func (m *mockSession) GenerateStories(context.Context) ([]domain.UserStory, error) {
	return m.stories, m.err
}

func (m *mockSession) IdentifyStakeholders(context.Context) ([]domain.Stakeholder, error) {
	return m.holders, m.err
}

func (m *mockSession) GenerateReport(context.Context) (domain.Report, error) {
	return domain.Report{
		Title:        "Requirements Report",
		Requirements: m.snapshot.Requirements,
		Stories:      m.stories,
		Stakeholders: m.holders,
	}, m.err
}

func (m *mockSession) EditRequirement(r domain.Requirement) error {
	if m.err != nil {
		return m.err
	}
	m.edited = &r
	for i := range m.snapshot.Requirements {
		if m.snapshot.Requirements[i].ID == r.ID {
			m.snapshot.Requirements[i] = r
		}
	}
	return nil
}

func (m *mockSession) DeleteRequirement(id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = id
	kept := m.snapshot.Requirements[:0]
	for _, r := range m.snapshot.Requirements {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.snapshot.Requirements = kept
	return nil
}

func (m *mockSession) ExportReport(w io.Writer, _ domain.ReportFormat) error {
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, m.report)
	return err
}

func (m *mockSession) Snapshot() domain.SessionSnapshot { return m.snapshot.Clone() }

func (m *mockSession) Turns() []domain.Turn { return m.turns }

func sampleRequirements() []domain.Requirement {
	return []domain.Requirement{
		{ID: "1", Type: domain.RequirementTypeFunctional, Description: "Users can post recipes", Priority: domain.PriorityHigh},
		{ID: "2", Type: domain.RequirementTypeNonFunctional, Description: "Pages load within 2s", Priority: domain.PriorityLow},
	}
}
