package domain

// SessionSnapshot is a consistent copy of a session's requirement state.
type SessionSnapshot struct {
	Requirements []Requirement
	Classified   []ClassifiedRequirement
	Stories      []UserStory
	Stakeholders []Stakeholder

	// SelectedID is the requirement being edited, or empty.
	SelectedID string
}

// Clone returns a deep copy of s.
func (s SessionSnapshot) Clone() SessionSnapshot {
	return SessionSnapshot{
		Requirements: CloneRequirements(s.Requirements),
		Classified:   CloneClassified(s.Classified),
		Stories:      CloneStories(s.Stories),
		Stakeholders: CloneStakeholders(s.Stakeholders),
		SelectedID:   s.SelectedID,
	}
}

// HasRequirements reports whether any requirement exists.
func (s SessionSnapshot) HasRequirements() bool {
	return len(s.Requirements) > 0
}

// Report is the full set of artifacts rendered by an export.
type Report struct {
	Title        string
	Requirements []Requirement
	Stories      []UserStory
	Stakeholders []Stakeholder
}

// ReportFormat selects how a report is rendered.
type ReportFormat string

// Report formats.
const (
	ReportFormatMarkdown ReportFormat = "markdown"
	ReportFormatText     ReportFormat = "text"
)

// IsValid returns true if the format is recognised.
func (f ReportFormat) IsValid() bool {
	return f == ReportFormatMarkdown || f == ReportFormatText
}
