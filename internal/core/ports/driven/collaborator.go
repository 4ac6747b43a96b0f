package driven

import (
	"context"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// Collaborator is the gateway to the model-backed requirements flows.
// Every call blocks until the flow completes, fails, or ctx is done.
// Implementations return structured values only; they never touch
// session state.
type Collaborator interface {
	// Classify assigns a type to each requirement description.
	Classify(ctx context.Context, requirements []string) ([]domain.ClassifiedRequirement, error)

	// GenerateStories produces user stories for functional requirement descriptions.
	GenerateStories(ctx context.Context, functional []string) ([]domain.UserStory, error)

	// IdentifyStakeholders lists the parties interested in the requirements.
	IdentifyStakeholders(ctx context.Context, requirements []string) ([]domain.Stakeholder, error)

	// ContinueConversation returns the full updated requirement list and
	// a follow-up question for the given history.
	ContinueConversation(ctx context.Context, history []domain.HistoryEntry) (domain.ConversationUpdate, error)

	// GenerateInitialRequirements drafts requirements from an application idea.
	GenerateInitialRequirements(ctx context.Context, idea string) ([]domain.Requirement, error)

	// ImproveRequirements returns free-form text that should contain the
	// updated requirement list as a JSON array somewhere inside it.
	ImproveRequirements(ctx context.Context, prompt string) (string, error)

	// SpeakRequirements narrates requirements and returns a
	// data:audio/wav;base64 URI.
	SpeakRequirements(ctx context.Context, requirements []domain.Requirement) (string, error)
}
