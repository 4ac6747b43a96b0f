package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_Kinds(t *testing.T) {
	tests := []struct {
		payload Payload
		kind    PayloadKind
	}{
		{PlainPayload{}, PayloadPlain},
		{RequirementsPayload{}, PayloadRequirements},
		{ClassificationPayload{}, PayloadClassification},
		{StoriesPayload{}, PayloadStories},
		{StakeholdersPayload{}, PayloadStakeholders},
		{ReportPayload{}, PayloadReport},
		{AudioPayload{}, PayloadAudio},
		{ErrorPayload{}, PayloadError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.payload.Kind())
		})
	}
}

func TestClonePayload_Nil(t *testing.T) {
	assert.Equal(t, PlainPayload{}, ClonePayload(nil))
}

func TestClonePayload_RequirementsSnapshotIsIndependent(t *testing.T) {
	reqs := []Requirement{{ID: "1", Description: "Login"}}
	cloned := ClonePayload(RequirementsPayload{Requirements: reqs})

	reqs[0].Description = "Logout"

	snap, ok := cloned.(RequirementsPayload)
	require.True(t, ok)
	assert.Equal(t, "Login", snap.Requirements[0].Description)
}

func TestClonePayload_ReportDeepCopies(t *testing.T) {
	orig := ReportPayload{
		Stories: []UserStory{{AcceptanceCriteria: []string{"x"}}},
	}
	cloned := ClonePayload(orig).(ReportPayload)
	orig.Stories[0].AcceptanceCriteria[0] = "y"
	assert.Equal(t, "x", cloned.Stories[0].AcceptanceCriteria[0])
}

func TestTurn_IsError(t *testing.T) {
	assert.True(t, Turn{Payload: ErrorPayload{Message: "x"}}.IsError())
	assert.False(t, Turn{Payload: PlainPayload{}}.IsError())
	assert.False(t, Turn{}.IsError())
}
