package driven

import "github.com/custodia-labs/reqbot-cli/internal/core/domain"

// RequirementStore holds the canonical requirement list of a session and
// the artifacts derived from it. Mutations are visible to readers
// immediately; readers always receive copies.
type RequirementStore interface {
	// Requirements returns the current requirement list.
	Requirements() []domain.Requirement

	// ReplaceAll replaces the whole requirement list.
	ReplaceAll(reqs []domain.Requirement)

	// UpsertByDescription sets the type of each live requirement whose
	// description exactly matches a classification. Unmatched
	// classifications are ignored. It records classified as the
	// classified-requirements view and returns the number of matches.
	UpsertByDescription(classified []domain.ClassifiedRequirement) int

	// UpdateByID replaces the requirement with the same ID.
	// Returns false and changes nothing when the ID is absent.
	UpdateByID(r domain.Requirement) bool

	// DeleteByID removes the requirement with the given ID.
	// Returns false when the ID is absent.
	DeleteByID(id string) bool

	// Retired reports whether id belonged to a requirement removed by
	// DeleteByID. Retired IDs are never handed out again.
	Retired(id string) bool

	// Classified returns the last classification result.
	Classified() []domain.ClassifiedRequirement

	// SetUserStories replaces the user stories.
	SetUserStories(stories []domain.UserStory)

	// UserStories returns the user stories.
	UserStories() []domain.UserStory

	// SetStakeholders replaces the stakeholders.
	SetStakeholders(stakeholders []domain.Stakeholder)

	// Stakeholders returns the stakeholders.
	Stakeholders() []domain.Stakeholder

	// Select marks the requirement with id as the one being edited.
	Select(id string) bool

	// Selected returns the selected requirement, if any.
	Selected() (domain.Requirement, bool)

	// ClearSelection removes the selection.
	ClearSelection()

	// Snapshot returns a consistent copy of every list.
	Snapshot() domain.SessionSnapshot

	// Restore replaces every list with the snapshot's contents.
	Restore(s domain.SessionSnapshot)
}
