// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// RequirementList displays requirements in a navigable list.
type RequirementList struct {
	reqs     []domain.Requirement
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRequirementList creates a new requirement list component.
func NewRequirementList(s *styles.Styles) *RequirementList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RequirementList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *RequirementList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RequirementList) Update(msg tea.Msg) (*RequirementList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the list.
func (r *RequirementList) View() string {
	if len(r.reqs) == 0 {
		return r.styles.Muted.Render("No requirements yet")
	}

	lines := make([]string, 0, len(r.reqs)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Requirements (%d)", len(r.reqs))), "")

	visible := r.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.reqs) {
		end = len(r.reqs)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i, r.reqs[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *RequirementList) renderRow(index int, req domain.Requirement) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxDesc := r.width - 34
	if maxDesc < 10 {
		maxDesc = 10
	}
	desc := req.Description
	if len(desc) > maxDesc {
		desc = desc[:maxDesc-3] + "..."
	}

	text := fmt.Sprintf("%s%-4s %-*s", indicator, req.ID, maxDesc, desc)
	if index == r.selected {
		text = r.styles.Selected.Render(text)
	} else {
		text = r.styles.Normal.Render(text)
	}
	return text + " " + r.styles.TypeBadge(req.Type) + " " + r.styles.PriorityLabel(req.Priority)
}

// SetRequirements replaces the list contents. The selection follows the
// previously selected ID when it is still present.
func (r *RequirementList) SetRequirements(reqs []domain.Requirement) {
	prev := r.SelectedRequirement()
	r.reqs = reqs
	r.selected = 0
	if prev == nil {
		return
	}
	for i, req := range reqs {
		if req.ID == prev.ID {
			r.selected = i
			return
		}
	}
}

// Requirements returns the listed requirements.
func (r *RequirementList) Requirements() []domain.Requirement {
	return r.reqs
}

// Selected returns the index of the selected requirement.
func (r *RequirementList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RequirementList) SetSelected(index int) {
	if index >= 0 && index < len(r.reqs) {
		r.selected = index
	}
}

// SelectedRequirement returns the selected requirement, or nil if none.
func (r *RequirementList) SelectedRequirement() *domain.Requirement {
	if r.selected < 0 || r.selected >= len(r.reqs) {
		return nil
	}
	req := r.reqs[r.selected]
	return &req
}

// MoveUp moves selection up.
func (r *RequirementList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RequirementList) MoveDown() {
	if r.selected < len(r.reqs)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RequirementList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of requirements.
func (r *RequirementList) Count() int {
	return len(r.reqs)
}

// IsEmpty returns whether the list is empty.
func (r *RequirementList) IsEmpty() bool {
	return len(r.reqs) == 0
}
