package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBusy indicates another session operation is still in flight.
	ErrBusy = errors.New("operation in progress")

	// ErrNoRequirements indicates an operation needs at least one requirement.
	ErrNoRequirements = errors.New("no requirements")

	// ErrNotClassified indicates requirements must be classified first.
	ErrNotClassified = errors.New("requirements not classified")

	// ErrResponseShape indicates the collaborator answered in a form
	// that could not be interpreted.
	ErrResponseShape = errors.New("unrecognised response shape")

	// ErrCollaborator indicates the collaborator call itself failed.
	ErrCollaborator = errors.New("collaborator request failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Every collaborator-backed operation is disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrSpeechUnavailable indicates the speech service is not configured.
	// Narration is disabled.
	ErrSpeechUnavailable = errors.New("speech service unavailable")

	// ErrRateLimited indicates the collaborator rate limit could not be satisfied.
	ErrRateLimited = errors.New("rate limited")
)

func invalidField(name string) error {
	return fmt.Errorf("%w: missing or invalid %s", ErrInvalidInput, name)
}

// UserMessage returns the text shown to a user for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBusy):
		return "Please wait for the current operation to finish."
	case errors.Is(err, ErrNoRequirements):
		return "There are no requirements yet. Describe your application idea first."
	case errors.Is(err, ErrNotClassified):
		return "Please classify the requirements before generating user stories."
	case errors.Is(err, ErrResponseShape):
		return "I couldn't understand how to update the requirements. Please try rephrasing your request."
	case errors.Is(err, ErrLLMUnavailable):
		return "No LLM provider is configured. Run 'reqbot settings llm' to set one up."
	case errors.Is(err, ErrSpeechUnavailable):
		return "No speech provider is configured. Run 'reqbot settings speech' to set one up."
	default:
		return "Sorry, I encountered an error: " + err.Error()
	}
}
