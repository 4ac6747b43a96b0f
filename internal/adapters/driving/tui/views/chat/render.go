package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// renderTurns lays out the conversation for the viewport.
func renderTurns(s *styles.Styles, turns []domain.Turn, width int) string {
	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		blocks = append(blocks, renderTurn(s, t, width))
	}
	return strings.Join(blocks, "\n\n")
}

func renderTurn(s *styles.Styles, t domain.Turn, width int) string {
	label := s.AssistantTurn.Render("ReqBot")
	if t.Role == domain.RoleUser {
		label = s.UserTurn.Render("You")
	}

	wrap := lipgloss.NewStyle().Width(width)
	body := wrap.Render(t.Content)
	if t.IsError() {
		body = s.Error.Width(width).Render(t.Content)
	}

	extra := renderPayload(s, t.Payload)
	if extra == "" {
		return label + "\n" + body
	}
	return label + "\n" + body + "\n" + wrap.Render(extra)
}

// renderPayload renders the structured part of a turn.
func renderPayload(s *styles.Styles, p domain.Payload) string {
	var lines []string
	switch p := p.(type) {
	case domain.RequirementsPayload:
		for _, r := range p.Requirements {
			lines = append(lines, fmt.Sprintf("  %s. %s  %s %s",
				r.ID, r.Description, s.TypeBadge(r.Type), s.PriorityLabel(r.Priority)))
		}
	case domain.ClassificationPayload:
		for _, c := range p.Classified {
			lines = append(lines, fmt.Sprintf("  • %s  %s", c.Requirement, s.TypeBadge(c.Type)))
		}
	case domain.StoriesPayload:
		lines = storyLines(p.Stories)
	case domain.StakeholdersPayload:
		for _, sh := range p.Stakeholders {
			lines = append(lines, fmt.Sprintf("  • %s: %s", s.Subtitle.Render(sh.Role), sh.Description))
		}
	case domain.ReportPayload:
		lines = append(lines, s.Muted.Render(fmt.Sprintf(
			"  %d requirements, %d user stories, %d stakeholders. Type /copy to copy the report.",
			len(p.Requirements), len(p.Stories), len(p.Stakeholders))))
	case domain.AudioPayload:
		lines = append(lines, s.Muted.Render("  ♪ Narration ready. Type /play to hear it again."))
	case domain.PlainPayload, domain.ErrorPayload, nil:
	}
	return strings.Join(lines, "\n")
}

func storyLines(stories []domain.UserStory) []string {
	var lines []string
	for i, st := range stories {
		lines = append(lines, fmt.Sprintf("  %d. As a %s, I want to %s so that %s.",
			i+1, st.UserPersona, st.Feature, st.Benefit))
		for _, c := range st.AcceptanceCriteria {
			lines = append(lines, "     - "+c)
		}
	}
	return lines
}
