package domain

import "strings"

// RequirementType categorises a requirement.
type RequirementType string

// Requirement types recognised by the assistant.
const (
	// RequirementTypeFunctional describes what the system does.
	RequirementTypeFunctional RequirementType = "functional"

	// RequirementTypeNonFunctional describes a quality attribute.
	RequirementTypeNonFunctional RequirementType = "non-functional"

	// RequirementTypeDomain describes a rule of the problem domain.
	RequirementTypeDomain RequirementType = "domain"

	// RequirementTypeInverse describes something the system must not do.
	RequirementTypeInverse RequirementType = "inverse"
)

// IsValid returns true if the requirement type is recognised.
func (t RequirementType) IsValid() bool {
	switch t {
	case RequirementTypeFunctional, RequirementTypeNonFunctional,
		RequirementTypeDomain, RequirementTypeInverse:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t RequirementType) String() string {
	return string(t)
}

// Description returns a human-readable label.
func (t RequirementType) Description() string {
	switch t {
	case RequirementTypeFunctional:
		return "Functional"
	case RequirementTypeNonFunctional:
		return "Non-Functional"
	case RequirementTypeDomain:
		return "Domain"
	case RequirementTypeInverse:
		return "Inverse"
	default:
		return unknownDescription
	}
}

// AllRequirementTypes returns the recognised types in default precedence order.
func AllRequirementTypes() []RequirementType {
	return []RequirementType{
		RequirementTypeFunctional,
		RequirementTypeNonFunctional,
		RequirementTypeDomain,
		RequirementTypeInverse,
	}
}

// Priority ranks a requirement's importance.
type Priority string

// Priorities recognised by the assistant.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid returns true if the priority is recognised.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Priority) String() string {
	return string(p)
}

// AllPriorities returns the recognised priorities, highest first.
func AllPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Requirement is a single elicited requirement.
// ID is assigned once and never reused within a session.
type Requirement struct {
	ID          string          `json:"id"`
	Type        RequirementType `json:"type"`
	Description string          `json:"description"`
	Priority    Priority        `json:"priority"`
}

// Validate reports whether every field is present and within its enum.
func (r Requirement) Validate() error {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return invalidField("id")
	case strings.TrimSpace(r.Description) == "":
		return invalidField("description")
	case !r.Type.IsValid():
		return invalidField("type")
	case !r.Priority.IsValid():
		return invalidField("priority")
	}
	return nil
}

// ClassifiedRequirement is a classification result keyed by description,
// not by ID. It is merged into the requirement list by exact description match.
type ClassifiedRequirement struct {
	Requirement string          `json:"requirement"`
	Type        RequirementType `json:"type"`
}

// UserStory is a user story derived from functional requirements.
type UserStory struct {
	UserPersona        string   `json:"userPersona"`
	Feature            string   `json:"feature"`
	Benefit            string   `json:"benefit"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
}

// Stakeholder is a party with an interest in the system.
type Stakeholder struct {
	Role        string `json:"role"`
	Description string `json:"description"`
}

// Descriptions returns the description of each requirement, in order.
func Descriptions(reqs []Requirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.Description
	}
	return out
}

// FunctionalDescriptions returns the requirement text of each functional
// classification, in order.
func FunctionalDescriptions(classified []ClassifiedRequirement) []string {
	var out []string
	for _, c := range classified {
		if c.Type == RequirementTypeFunctional {
			out = append(out, c.Requirement)
		}
	}
	return out
}

// FilterByDescription returns the requirements whose description contains
// query, ignoring case. An empty query matches everything.
func FilterByDescription(reqs []Requirement, query string) []Requirement {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Requirement, 0, len(reqs))
	for _, r := range reqs {
		if q == "" || strings.Contains(strings.ToLower(r.Description), q) {
			out = append(out, r)
		}
	}
	return out
}

// CloneRequirements returns a copy of reqs that shares no backing array.
func CloneRequirements(reqs []Requirement) []Requirement {
	if reqs == nil {
		return nil
	}
	out := make([]Requirement, len(reqs))
	copy(out, reqs)
	return out
}

// CloneClassified returns a copy of classified.
func CloneClassified(classified []ClassifiedRequirement) []ClassifiedRequirement {
	if classified == nil {
		return nil
	}
	out := make([]ClassifiedRequirement, len(classified))
	copy(out, classified)
	return out
}

// CloneStories returns a deep copy of stories, including acceptance criteria.
func CloneStories(stories []UserStory) []UserStory {
	if stories == nil {
		return nil
	}
	out := make([]UserStory, len(stories))
	for i, s := range stories {
		out[i] = s
		if s.AcceptanceCriteria != nil {
			out[i].AcceptanceCriteria = append([]string(nil), s.AcceptanceCriteria...)
		}
	}
	return out
}

// CloneStakeholders returns a copy of stakeholders.
func CloneStakeholders(stakeholders []Stakeholder) []Stakeholder {
	if stakeholders == nil {
		return nil
	}
	out := make([]Stakeholder, len(stakeholders))
	copy(out, stakeholders)
	return out
}
