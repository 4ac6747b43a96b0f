package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// NoInput is the input schema for tools that take no arguments.
type NoInput struct{}

// MessageInput is the input schema for the send_message tool.
type MessageInput struct {
	Text string `json:"text" jsonschema:"the user's message, an app idea or an answer to a follow-up question"`
}

// IdeaInput is the input schema for the start tool.
type IdeaInput struct {
	Idea string `json:"idea" jsonschema:"a short description of the application to elicit requirements for"`
}

// FeedbackInput is the input schema for the apply_feedback tool.
type FeedbackInput struct {
	Feedback string `json:"feedback" jsonschema:"changes to apply to the current requirements"`
}

// EditInput is the input schema for the edit_requirement tool.
type EditInput struct {
	ID          string `json:"id" jsonschema:"the requirement ID"`
	Description string `json:"description" jsonschema:"the new description"`
	Type        string `json:"type,omitempty" jsonschema:"functional, non-functional, domain or inverse"`
	Priority    string `json:"priority,omitempty" jsonschema:"high, medium or low"`
}

// DeleteInput is the input schema for the delete_requirement tool.
type DeleteInput struct {
	ID string `json:"id" jsonschema:"the requirement ID"`
}

// ConversationOutput is the output schema for the send_message tool.
type ConversationOutput struct {
	Requirements     []domain.Requirement `json:"requirements"`
	FollowUpQuestion string               `json:"follow_up_question,omitempty"`
}

// RequirementsOutput lists requirements.
type RequirementsOutput struct {
	Requirements []domain.Requirement `json:"requirements"`
	Count        int                  `json:"count"`
}

// ClassificationOutput is the output schema for the classify tool.
type ClassificationOutput struct {
	Classified []domain.ClassifiedRequirement `json:"classified"`
}

// StoriesOutput is the output schema for the generate_stories tool.
type StoriesOutput struct {
	Stories []domain.UserStory `json:"stories"`
}

// StakeholdersOutput is the output schema for the identify_stakeholders tool.
type StakeholdersOutput struct {
	Stakeholders []domain.Stakeholder `json:"stakeholders"`
}

// ReportOutput is the output schema for the generate_report tool.
type ReportOutput struct {
	Title        string               `json:"title"`
	Requirements []domain.Requirement `json:"requirements"`
	Stories      []domain.UserStory   `json:"stories"`
	Stakeholders []domain.Stakeholder `json:"stakeholders"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "send_message",
		Description: "Send a chat message; returns the updated requirements and a follow-up question",
	}, s.handleSendMessage)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "start",
		Description: "Draft an initial requirement list from an application idea",
	}, s.handleStart)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "apply_feedback",
		Description: "Revise the current requirements according to feedback",
	}, s.handleApplyFeedback)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify",
		Description: "Classify each requirement as functional, non-functional, domain or inverse",
	}, s.handleClassify)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_stories",
		Description: "Write user stories for the functional requirements",
	}, s.handleGenerateStories)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "identify_stakeholders",
		Description: "Identify stakeholders implied by the requirements",
	}, s.handleIdentifyStakeholders)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_report",
		Description: "Classify, sort, write stories and identify stakeholders in one pass",
	}, s.handleGenerateReport)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_requirement",
		Description: "Replace the description, type or priority of a requirement",
	}, s.handleEditRequirement)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_requirement",
		Description: "Remove a requirement by ID",
	}, s.handleDeleteRequirement)
}

func (s *Server) handleSendMessage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MessageInput,
) (*mcp.CallToolResult, ConversationOutput, error) {
	update, err := s.ports.Session.SendMessage(ctx, input.Text)
	if err != nil {
		return nil, ConversationOutput{}, err
	}
	return nil, ConversationOutput{
		Requirements:     nonNil(update.UpdatedRequirements),
		FollowUpQuestion: update.FollowUpQuestion,
	}, nil
}

func (s *Server) handleStart(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IdeaInput,
) (*mcp.CallToolResult, RequirementsOutput, error) {
	reqs, err := s.ports.Session.Start(ctx, input.Idea)
	if err != nil {
		return nil, RequirementsOutput{}, err
	}
	return nil, requirementsOutput(reqs), nil
}

func (s *Server) handleApplyFeedback(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FeedbackInput,
) (*mcp.CallToolResult, RequirementsOutput, error) {
	reqs, err := s.ports.Session.ApplyFeedback(ctx, input.Feedback)
	if err != nil {
		return nil, RequirementsOutput{}, err
	}
	return nil, requirementsOutput(reqs), nil
}

func (s *Server) handleClassify(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, ClassificationOutput, error) {
	classified, err := s.ports.Session.Classify(ctx)
	if err != nil {
		return nil, ClassificationOutput{}, err
	}
	return nil, ClassificationOutput{Classified: nonNil(classified)}, nil
}

func (s *Server) handleGenerateStories(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, StoriesOutput, error) {
	stories, err := s.ports.Session.GenerateStories(ctx)
	if err != nil {
		return nil, StoriesOutput{}, err
	}
	return nil, StoriesOutput{Stories: nonNil(stories)}, nil
}

func (s *Server) handleIdentifyStakeholders(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, StakeholdersOutput, error) {
	stakeholders, err := s.ports.Session.IdentifyStakeholders(ctx)
	if err != nil {
		return nil, StakeholdersOutput{}, err
	}
	return nil, StakeholdersOutput{Stakeholders: nonNil(stakeholders)}, nil
}

func (s *Server) handleGenerateReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	report, err := s.ports.Session.GenerateReport(ctx)
	if err != nil {
		return nil, ReportOutput{}, err
	}
	return nil, ReportOutput{
		Title:        report.Title,
		Requirements: nonNil(report.Requirements),
		Stories:      nonNil(report.Stories),
		Stakeholders: nonNil(report.Stakeholders),
	}, nil
}

func (s *Server) handleEditRequirement(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EditInput,
) (*mcp.CallToolResult, RequirementsOutput, error) {
	current, ok := findRequirement(s.ports.Session.Snapshot().Requirements, input.ID)
	if !ok {
		return nil, RequirementsOutput{}, domain.ErrNotFound
	}

	current.Description = input.Description
	if input.Type != "" {
		current.Type = domain.RequirementType(input.Type)
	}
	if input.Priority != "" {
		current.Priority = domain.Priority(input.Priority)
	}
	if err := s.ports.Session.EditRequirement(current); err != nil {
		return nil, RequirementsOutput{}, err
	}
	return nil, requirementsOutput(s.ports.Session.Snapshot().Requirements), nil
}

func (s *Server) handleDeleteRequirement(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, RequirementsOutput, error) {
	if err := s.ports.Session.DeleteRequirement(input.ID); err != nil {
		return nil, RequirementsOutput{}, err
	}
	return nil, requirementsOutput(s.ports.Session.Snapshot().Requirements), nil
}

func requirementsOutput(reqs []domain.Requirement) RequirementsOutput {
	return RequirementsOutput{Requirements: nonNil(reqs), Count: len(reqs)}
}

func findRequirement(reqs []domain.Requirement, id string) (domain.Requirement, bool) {
	for _, r := range reqs {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Requirement{}, false
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
