package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptSystem is the system prompt shared by every flow.
	// This prompt has no format placeholders.
	PromptSystem = "system"

	// PromptClassify classifies requirement descriptions.
	// The prompt template expects a %s placeholder for a JSON array of descriptions.
	PromptClassify = "classify"

	// PromptUserStories writes user stories for functional requirements.
	// The prompt template expects a %s placeholder for a JSON array of descriptions.
	PromptUserStories = "user_stories"

	// PromptStakeholders identifies stakeholders.
	// The prompt template expects a %s placeholder for a JSON array of descriptions.
	PromptStakeholders = "stakeholders"

	// PromptConversation continues the elicitation conversation.
	// The prompt is sent as a system message and has no format placeholders.
	PromptConversation = "conversation"

	// PromptInitialRequirements drafts requirements from an application idea.
	// The prompt template expects a %s placeholder for the idea.
	PromptInitialRequirements = "initial_requirements"

	// PromptImprove rewrites requirements from free-form feedback.
	// The prompt template expects one %s placeholder for the current
	// requirements and requested changes.
	PromptImprove = "improve"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
