package domain

import "time"

// Role identifies who authored a turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PayloadKind tags the variant carried by a turn.
type PayloadKind string

// Payload kinds.
const (
	PayloadPlain          PayloadKind = "plain"
	PayloadRequirements   PayloadKind = "requirements"
	PayloadClassification PayloadKind = "classification"
	PayloadStories        PayloadKind = "stories"
	PayloadStakeholders   PayloadKind = "stakeholders"
	PayloadReport         PayloadKind = "report"
	PayloadAudio          PayloadKind = "audio"
	PayloadError          PayloadKind = "error"
)

// Payload is the structured attachment of a turn. Implementations are
// point-in-time copies; later store mutations never alter them.
type Payload interface {
	Kind() PayloadKind
	clone() Payload
}

// PlainPayload carries no structured data.
type PlainPayload struct{}

// RequirementsPayload is a snapshot of the requirement list.
type RequirementsPayload struct {
	Requirements []Requirement
}

// ClassificationPayload is a snapshot of a classification result.
type ClassificationPayload struct {
	Classified []ClassifiedRequirement
}

// StoriesPayload is a snapshot of generated user stories.
type StoriesPayload struct {
	Stories []UserStory
}

// StakeholdersPayload is a snapshot of identified stakeholders.
type StakeholdersPayload struct {
	Stakeholders []Stakeholder
}

// ReportPayload is a snapshot of one full report pass.
type ReportPayload struct {
	Requirements []Requirement
	Classified   []ClassifiedRequirement
	Stories      []UserStory
	Stakeholders []Stakeholder
}

// AudioPayload carries narrated requirements as a data URI.
type AudioPayload struct {
	DataURI string
}

func (PlainPayload) Kind() PayloadKind          { return PayloadPlain }
func (RequirementsPayload) Kind() PayloadKind   { return PayloadRequirements }
func (ClassificationPayload) Kind() PayloadKind { return PayloadClassification }
func (StoriesPayload) Kind() PayloadKind        { return PayloadStories }
func (StakeholdersPayload) Kind() PayloadKind   { return PayloadStakeholders }
func (ReportPayload) Kind() PayloadKind         { return PayloadReport }
func (AudioPayload) Kind() PayloadKind          { return PayloadAudio }

func (p PlainPayload) clone() Payload { return p }

func (p RequirementsPayload) clone() Payload {
	return RequirementsPayload{Requirements: CloneRequirements(p.Requirements)}
}

func (p ClassificationPayload) clone() Payload {
	return ClassificationPayload{Classified: CloneClassified(p.Classified)}
}

func (p StoriesPayload) clone() Payload {
	return StoriesPayload{Stories: CloneStories(p.Stories)}
}

func (p StakeholdersPayload) clone() Payload {
	return StakeholdersPayload{Stakeholders: CloneStakeholders(p.Stakeholders)}
}

func (p ReportPayload) clone() Payload {
	return ReportPayload{
		Requirements: CloneRequirements(p.Requirements),
		Classified:   CloneClassified(p.Classified),
		Stories:      CloneStories(p.Stories),
		Stakeholders: CloneStakeholders(p.Stakeholders),
	}
}

func (p AudioPayload) clone() Payload { return p }

// ClonePayload returns a deep copy of p. A nil payload becomes PlainPayload.
func ClonePayload(p Payload) Payload {
	if p == nil {
		return PlainPayload{}
	}
	return p.clone()
}

// Turn is one entry in the conversation log.
type Turn struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
	Payload   Payload
}

// IsError reports whether the turn records a failed operation.
func (t Turn) IsError() bool {
	_, ok := t.Payload.(ErrorPayload)
	return ok
}

// ErrorPayload marks an assistant turn that reports a failure.
type ErrorPayload struct {
	Message string
}

func (ErrorPayload) Kind() PayloadKind { return PayloadError }

func (p ErrorPayload) clone() Payload { return p }

// HistoryEntry is the role/content pair sent to the collaborator.
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationUpdate is the collaborator's answer to a conversation turn.
type ConversationUpdate struct {
	UpdatedRequirements []Requirement `json:"updatedRequirements"`
	FollowUpQuestion    string        `json:"followUpQuestion"`
}

// Greeting is the assistant's opening turn.
const Greeting = "Hello! I'm ReqBot, your personal business analyst. " +
	"To start, please describe your application idea."
