package httpapi

import (
	"time"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// Request payloads

type MessageRequest struct {
	Text string `json:"text" minLength:"1"`
}

type StartRequest struct {
	Idea string `json:"idea" minLength:"1"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" minLength:"1"`
}

type UpdateRequirementRequest struct {
	Description string  `json:"description" minLength:"1"`
	Type        *string `json:"type,omitempty" enum:"functional,non-functional,domain,inverse"`
	Priority    *string `json:"priority,omitempty" enum:"high,medium,low"`
}

// Response payloads

type RequirementResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type ClassifiedResponse struct {
	Requirement string `json:"requirement"`
	Type        string `json:"type"`
}

type StoryResponse struct {
	UserPersona        string   `json:"user_persona"`
	Feature            string   `json:"feature"`
	Benefit            string   `json:"benefit"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

type StakeholderResponse struct {
	Role        string `json:"role"`
	Description string `json:"description"`
}

type SessionResponse struct {
	Requirements []RequirementResponse `json:"requirements"`
	Classified   []ClassifiedResponse  `json:"classified"`
	Stories      []StoryResponse       `json:"stories"`
	Stakeholders []StakeholderResponse `json:"stakeholders"`
	SelectedID   string                `json:"selected_id,omitempty"`
	Busy         bool                  `json:"busy"`
}

type TurnResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationResponse struct {
	Requirements     []RequirementResponse `json:"requirements"`
	FollowUpQuestion string                `json:"follow_up_question,omitempty"`
}

type ReportResponse struct {
	Title        string                `json:"title"`
	Requirements []RequirementResponse `json:"requirements"`
	Stories      []StoryResponse       `json:"stories"`
	Stakeholders []StakeholderResponse `json:"stakeholders"`
}

type AudioResponse struct {
	DataURI string `json:"data_uri"`
}

func requirementResponses(reqs []domain.Requirement) []RequirementResponse {
	out := make([]RequirementResponse, len(reqs))
	for i, r := range reqs {
		out[i] = RequirementResponse{
			ID:          r.ID,
			Type:        string(r.Type),
			Description: r.Description,
			Priority:    string(r.Priority),
		}
	}
	return out
}

func classifiedResponses(items []domain.ClassifiedRequirement) []ClassifiedResponse {
	out := make([]ClassifiedResponse, len(items))
	for i, c := range items {
		out[i] = ClassifiedResponse{Requirement: c.Requirement, Type: string(c.Type)}
	}
	return out
}

func storyResponses(stories []domain.UserStory) []StoryResponse {
	out := make([]StoryResponse, len(stories))
	for i, s := range stories {
		criteria := s.AcceptanceCriteria
		if criteria == nil {
			criteria = []string{}
		}
		out[i] = StoryResponse{
			UserPersona:        s.UserPersona,
			Feature:            s.Feature,
			Benefit:            s.Benefit,
			AcceptanceCriteria: criteria,
		}
	}
	return out
}

func stakeholderResponses(items []domain.Stakeholder) []StakeholderResponse {
	out := make([]StakeholderResponse, len(items))
	for i, s := range items {
		out[i] = StakeholderResponse{Role: s.Role, Description: s.Description}
	}
	return out
}

func turnResponses(turns []domain.Turn) []TurnResponse {
	out := make([]TurnResponse, len(turns))
	for i, t := range turns {
		out[i] = TurnResponse{
			ID:        t.ID,
			Role:      string(t.Role),
			Content:   t.Content,
			Kind:      string(domain.ClonePayload(t.Payload).Kind()),
			CreatedAt: t.CreatedAt,
		}
	}
	return out
}

func sessionResponse(snap domain.SessionSnapshot, busy bool) SessionResponse {
	return SessionResponse{
		Requirements: requirementResponses(snap.Requirements),
		Classified:   classifiedResponses(snap.Classified),
		Stories:      storyResponses(snap.Stories),
		Stakeholders: stakeholderResponses(snap.Stakeholders),
		SelectedID:   snap.SelectedID,
		Busy:         busy,
	}
}
