package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for ReqBot resources.
	uriScheme = "reqbot://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "requirements",
		Name:        "requirements",
		Description: "Current requirements with classification, user stories and stakeholders",
		MIMEType:    "application/json",
	}, s.handleRequirementsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "conversation",
		Name:        "conversation",
		Description: "The conversation so far",
		MIMEType:    "application/json",
	}, s.handleConversationResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "report",
		Name:        "report",
		Description: "The last generated report as markdown",
		MIMEType:    "text/markdown",
	}, s.handleReportResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "requirements/{requirementId}",
		Name:        "requirement",
		Description: "A single requirement",
		MIMEType:    "application/json",
	}, s.handleRequirementResource)
}

type snapshotInfo struct {
	Requirements []domain.Requirement           `json:"requirements"`
	Classified   []domain.ClassifiedRequirement `json:"classified"`
	Stories      []domain.UserStory             `json:"stories"`
	Stakeholders []domain.Stakeholder           `json:"stakeholders"`
}

type turnInfo struct {
	ID      string      `json:"id"`
	Role    domain.Role `json:"role"`
	Content string      `json:"content"`
	Kind    string      `json:"kind"`
}

// handleRequirementsResource returns the session snapshot.
func (s *Server) handleRequirementsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	snap := s.ports.Session.Snapshot()
	return jsonResource(req.Params.URI, snapshotInfo{
		Requirements: nonNil(snap.Requirements),
		Classified:   nonNil(snap.Classified),
		Stories:      nonNil(snap.Stories),
		Stakeholders: nonNil(snap.Stakeholders),
	})
}

// handleConversationResource returns every turn without structured payloads.
func (s *Server) handleConversationResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	turns := s.ports.Session.Turns()
	infos := make([]turnInfo, len(turns))
	for i, t := range turns {
		infos[i] = turnInfo{
			ID:      t.ID,
			Role:    t.Role,
			Content: t.Content,
			Kind:    string(domain.ClonePayload(t.Payload).Kind()),
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleReportResource renders the last report.
func (s *Server) handleReportResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var b strings.Builder
	if err := s.ports.Session.ExportReport(&b, domain.ReportFormatMarkdown); err != nil {
		return nil, fmt.Errorf("exporting report: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     b.String(),
		}},
	}, nil
}

// handleRequirementResource returns one requirement by ID.
func (s *Server) handleRequirementResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractRequirementID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	r, ok := findRequirement(s.ports.Session.Snapshot().Requirements, id)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, r)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRequirementID extracts the ID from a URI like reqbot://requirements/{requirementId}.
func extractRequirementID(uri string) string {
	const prefix = uriScheme + "requirements/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
