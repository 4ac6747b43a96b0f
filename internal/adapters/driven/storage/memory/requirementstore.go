package memory

import (
	"sync"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
)

// Ensure RequirementStore implements the interface.
var _ driven.RequirementStore = (*RequirementStore)(nil)

// RequirementStore is an in-memory implementation of driven.RequirementStore.
// Every getter returns a copy.
type RequirementStore struct {
	mu           sync.RWMutex
	requirements []domain.Requirement
	classified   []domain.ClassifiedRequirement
	stories      []domain.UserStory
	stakeholders []domain.Stakeholder
	selectedID   string
	retired      map[string]struct{}
}

// NewRequirementStore creates an empty requirement store.
func NewRequirementStore() *RequirementStore {
	return &RequirementStore{retired: make(map[string]struct{})}
}

// Requirements returns the current requirement list.
func (s *RequirementStore) Requirements() []domain.Requirement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneRequirements(s.requirements)
}

// ReplaceAll replaces the whole requirement list.
func (s *RequirementStore) ReplaceAll(reqs []domain.Requirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements = domain.CloneRequirements(reqs)
	if s.selectedID != "" && s.indexOf(s.selectedID) < 0 {
		s.selectedID = ""
	}
}

// UpsertByDescription applies classifications by exact description match.
// When a description is classified twice, the later classification wins.
func (s *RequirementStore) UpsertByDescription(classified []domain.ClassifiedRequirement) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := make(map[string]domain.RequirementType, len(classified))
	for _, c := range classified {
		types[c.Requirement] = c.Type
	}
	matched := 0
	for i := range s.requirements {
		if t, ok := types[s.requirements[i].Description]; ok {
			s.requirements[i].Type = t
			matched++
		}
	}
	s.classified = domain.CloneClassified(classified)
	return matched
}

// UpdateByID replaces the requirement with the same ID, if present.
func (s *RequirementStore) UpdateByID(r domain.Requirement) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(r.ID)
	if i < 0 {
		return false
	}
	s.requirements[i] = r
	return true
}

// DeleteByID removes the requirement with the given ID.
func (s *RequirementStore) DeleteByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.requirements = append(s.requirements[:i:i], s.requirements[i+1:]...)
	s.retired[id] = struct{}{}
	if s.selectedID == id {
		s.selectedID = ""
	}
	return true
}

// Retired reports whether id was deleted earlier in the session.
func (s *RequirementStore) Retired(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.retired[id]
	return ok
}

// Classified returns the last classification result.
func (s *RequirementStore) Classified() []domain.ClassifiedRequirement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneClassified(s.classified)
}

// SetUserStories replaces the user stories.
func (s *RequirementStore) SetUserStories(stories []domain.UserStory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories = domain.CloneStories(stories)
}

// UserStories returns the user stories.
func (s *RequirementStore) UserStories() []domain.UserStory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneStories(s.stories)
}

// SetStakeholders replaces the stakeholders.
func (s *RequirementStore) SetStakeholders(stakeholders []domain.Stakeholder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stakeholders = domain.CloneStakeholders(stakeholders)
}

// Stakeholders returns the stakeholders.
func (s *RequirementStore) Stakeholders() []domain.Stakeholder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneStakeholders(s.stakeholders)
}

// Select marks the requirement with id as selected.
func (s *RequirementStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

// Selected returns the selected requirement.
func (s *RequirementStore) Selected() (domain.Requirement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return domain.Requirement{}, false
	}
	i := s.indexOf(s.selectedID)
	if i < 0 {
		return domain.Requirement{}, false
	}
	return s.requirements[i], true
}

// ClearSelection removes the selection.
func (s *RequirementStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

// Snapshot returns a consistent copy of every list.
func (s *RequirementStore) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SessionSnapshot{
		Requirements: s.requirements,
		Classified:   s.classified,
		Stories:      s.stories,
		Stakeholders: s.stakeholders,
		SelectedID:   s.selectedID,
	}.Clone()
}

// Restore replaces every list with the snapshot's contents.
func (s *RequirementStore) Restore(snap domain.SessionSnapshot) {
	c := snap.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements = c.Requirements
	s.classified = c.Classified
	s.stories = c.Stories
	s.stakeholders = c.Stakeholders
	s.selectedID = c.SelectedID
}

// indexOf must be called with mu held.
func (s *RequirementStore) indexOf(id string) int {
	for i, r := range s.requirements {
		if r.ID == id {
			return i
		}
	}
	return -1
}
