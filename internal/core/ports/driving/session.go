package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// SessionService drives one elicitation session.
// At most one collaborator-backed or mutating operation runs at a time;
// a call made while another is in flight fails with domain.ErrBusy and
// leaves the session untouched.
type SessionService interface {
	// SendMessage sends a chat message and replaces the requirement list
	// with the collaborator's update.
	SendMessage(ctx context.Context, text string) (domain.ConversationUpdate, error)

	// Start drafts an initial requirement list from an application idea.
	Start(ctx context.Context, idea string) ([]domain.Requirement, error)

	// ApplyFeedback rewrites the requirement list from free-form feedback.
	ApplyFeedback(ctx context.Context, feedback string) ([]domain.Requirement, error)

	// Classify classifies the current requirements.
	Classify(ctx context.Context) ([]domain.ClassifiedRequirement, error)

	// GenerateStories writes user stories for functional requirements.
	GenerateStories(ctx context.Context) ([]domain.UserStory, error)

	// IdentifyStakeholders lists stakeholders for the current requirements.
	IdentifyStakeholders(ctx context.Context) ([]domain.Stakeholder, error)

	// GenerateReport classifies, writes stories and identifies stakeholders
	// as one operation. Either all three results are applied or none.
	GenerateReport(ctx context.Context) (domain.Report, error)

	// Speak narrates the requirements and returns a WAV data URI.
	Speak(ctx context.Context) (string, error)

	// EditRequirement replaces an existing requirement.
	EditRequirement(r domain.Requirement) error

	// DeleteRequirement removes a requirement.
	DeleteRequirement(id string) error

	// SelectRequirement marks a requirement as the one being edited.
	SelectRequirement(id string) error

	// ExportReport renders the current report to w.
	ExportReport(w io.Writer, format domain.ReportFormat) error

	// FilterRequirements returns requirements whose description contains query.
	FilterRequirements(query string) []domain.Requirement

	// Snapshot returns the current requirement state.
	Snapshot() domain.SessionSnapshot

	// Turns returns the conversation so far.
	Turns() []domain.Turn

	// Busy reports whether an operation is in flight.
	Busy() bool
}
