package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

func TestRenderPayload(t *testing.T) {
	s := styles.DefaultStyles()

	tests := []struct {
		name    string
		payload domain.Payload
		want    []string
	}{
		{
			name:    "plain",
			payload: domain.PlainPayload{},
		},
		{
			name:    "nil",
			payload: nil,
		},
		{
			name:    "error",
			payload: domain.ErrorPayload{Message: "boom"},
		},
		{
			name: "requirements",
			payload: domain.RequirementsPayload{Requirements: []domain.Requirement{
				{ID: "1", Type: domain.RequirementTypeInverse, Description: "No ads", Priority: domain.PriorityLow},
			}},
			want: []string{"1. No ads", "Inverse", "low"},
		},
		{
			name: "classification",
			payload: domain.ClassificationPayload{Classified: []domain.ClassifiedRequirement{
				{Requirement: "Login", Type: domain.RequirementTypeDomain},
			}},
			want: []string{"• Login", "Domain"},
		},
		{
			name: "stories",
			payload: domain.StoriesPayload{Stories: []domain.UserStory{{
				UserPersona: "shopper", Feature: "pay by card", Benefit: "I can check out",
				AcceptanceCriteria: []string{"Visa works"},
			}}},
			want: []string{"1. As a shopper, I want to pay by card so that I can check out.", "- Visa works"},
		},
		{
			name: "stakeholders",
			payload: domain.StakeholdersPayload{Stakeholders: []domain.Stakeholder{
				{Role: "Admin", Description: "Runs the shop"},
			}},
			want: []string{"Admin", "Runs the shop"},
		},
		{
			name: "report",
			payload: domain.ReportPayload{
				Requirements: []domain.Requirement{{ID: "1"}, {ID: "2"}},
				Stakeholders: []domain.Stakeholder{{Role: "Admin"}},
			},
			want: []string{"2 requirements, 0 user stories, 1 stakeholders", "/copy"},
		},
		{
			name:    "audio",
			payload: domain.AudioPayload{DataURI: "data:audio/wav;base64,AAAA"},
			want:    []string{"/play"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderPayload(s, tt.payload)
			if len(tt.want) == 0 {
				assert.Empty(t, out)
				return
			}
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRenderTurn_Labels(t *testing.T) {
	s := styles.DefaultStyles()

	user := renderTurn(s, domain.Turn{Role: domain.RoleUser, Content: "hi"}, 60)
	bot := renderTurn(s, domain.Turn{Role: domain.RoleAssistant, Content: "hello"}, 60)

	assert.Contains(t, user, "You")
	assert.Contains(t, bot, "ReqBot")
}

func TestRenderTurn_Error(t *testing.T) {
	s := styles.DefaultStyles()

	out := renderTurn(s, domain.Turn{
		Role: domain.RoleAssistant, Content: "Sorry, I encountered an error",
		Payload: domain.ErrorPayload{Message: "boom"},
	}, 60)

	assert.Contains(t, out, "Sorry, I encountered an error")
	assert.NotContains(t, out, "boom")
}

func TestRenderTurns_JoinsBlocks(t *testing.T) {
	s := styles.DefaultStyles()

	out := renderTurns(s, []domain.Turn{
		{Role: domain.RoleAssistant, Content: "one"},
		{Role: domain.RoleUser, Content: "two"},
	}, 60)

	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
}
