package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

func TestParseRequirementList(t *testing.T) {
	login := domain.Requirement{
		ID:          "1",
		Type:        domain.RequirementTypeFunctional,
		Description: "Login",
		Priority:    domain.PriorityHigh,
	}

	tests := []struct {
		name        string
		input       string
		want        []domain.Requirement
		wantDropped int
		wantErr     bool
	}{
		{
			name:  "bare array",
			input: `[{"id":"1","type":"functional","description":"Login","priority":"high"}]`,
			want:  []domain.Requirement{login},
		},
		{
			name:  "fenced array with prose",
			input: "Here you go:\n```json\n[{\"id\":\"1\",\"type\":\"functional\",\"description\":\"Login\",\"priority\":\"high\"}]\n```\nAnything else?",
			want:  []domain.Requirement{login},
		},
		{
			name:  "array embedded in prose",
			input: `Updated list: [{"id":"1","type":"functional","description":"Login","priority":"high"}] as requested.`,
			want:  []domain.Requirement{login},
		},
		{
			name:  "numeric id and mixed case",
			input: `[{"id":1,"type":"Functional","description":" Login ","priority":"HIGH"}]`,
			want:  []domain.Requirement{login},
		},
		{
			name: "invalid elements dropped",
			input: `[{"id":"1","type":"functional","description":"Login","priority":"high"},
				{"id":"2","type":"functional","description":"No priority"},
				{"id":"3","type":"misc","description":"Bad type","priority":"low"},
				"not an object"]`,
			want:        []domain.Requirement{login},
			wantDropped: 3,
		},
		{
			name:  "brackets inside strings",
			input: `note [see below] [{"id":"1","type":"functional","description":"Login","priority":"high"}]`,
			want:  []domain.Requirement{login},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []domain.Requirement{},
		},
		{
			name:    "no array",
			input:   "The requirements look good to me.",
			wantErr: true,
		},
		{
			name:    "unterminated array",
			input:   `[{"id":"1"`,
			wantErr: true,
		},
		{
			name:        "every element invalid",
			input:       `[{"description":"x"}]`,
			wantDropped: 1,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped, err := ParseRequirementList(tt.input)

			assert.Equal(t, tt.wantDropped, dropped)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrResponseShape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse(`  {"a":1} `))
}
