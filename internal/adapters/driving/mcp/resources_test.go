package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestExtractRequirementID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid requirement URI", "reqbot://requirements/req-1", "req-1"},
		{"invalid prefix", "file://requirements/req-1", ""},
		{"collection URI", "reqbot://requirements", ""},
		{"nested path", "reqbot://requirements/req-1/stories", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractRequirementID(tt.uri))
		})
	}
}

func TestServer_handleRequirementsResource(t *testing.T) {
	session := &mockSession{snapshot: domain.SessionSnapshot{Requirements: sampleRequirements()}}
	server := newTestServer(t, session)

	result, err := server.handleRequirementsResource(context.Background(), readRequest("reqbot://requirements"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var got snapshotInfo
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	assert.Len(t, got.Requirements, 2)
	assert.NotNil(t, got.Stories)
	assert.Contains(t, result.Contents[0].Text, `"stakeholders": []`)
}

func TestServer_handleConversationResource(t *testing.T) {
	session := &mockSession{turns: []domain.Turn{
		{ID: "t1", Role: domain.RoleAssistant, Content: domain.Greeting},
		{ID: "t2", Role: domain.RoleUser, Content: "a recipe site"},
		{ID: "t3", Role: domain.RoleAssistant, Content: "drafted", Payload: domain.RequirementsPayload{}},
	}}
	server := newTestServer(t, session)

	result, err := server.handleConversationResource(context.Background(), readRequest("reqbot://conversation"))

	require.NoError(t, err)
	var got []turnInfo
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "plain", got[0].Kind)
	assert.Equal(t, domain.RoleUser, got[1].Role)
	assert.Equal(t, "requirements", got[2].Kind)
}

func TestServer_handleReportResource(t *testing.T) {
	t.Run("returns markdown", func(t *testing.T) {
		server := newTestServer(t, &mockSession{report: "# Requirements Report\n"})

		result, err := server.handleReportResource(context.Background(), readRequest("reqbot://report"))

		require.NoError(t, err)
		assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
		assert.Equal(t, "# Requirements Report\n", result.Contents[0].Text)
	})

	t.Run("export error", func(t *testing.T) {
		server := newTestServer(t, &mockSession{err: errors.New("no report generated")})

		_, err := server.handleReportResource(context.Background(), readRequest("reqbot://report"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "exporting report")
	})
}

func TestServer_handleRequirementResource(t *testing.T) {
	session := &mockSession{snapshot: domain.SessionSnapshot{Requirements: sampleRequirements()}}
	server := newTestServer(t, session)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		result, err := server.handleRequirementResource(ctx, readRequest("reqbot://requirements/2"))

		require.NoError(t, err)
		var got domain.Requirement
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, "Pages load within 2s", got.Description)
	})

	t.Run("unknown ID", func(t *testing.T) {
		_, err := server.handleRequirementResource(ctx, readRequest("reqbot://requirements/9"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		_, err := server.handleRequirementResource(ctx, readRequest("reqbot://other/1"))
		assert.Error(t, err)
	})
}
