package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// formRow identifies the focused row of the edit form.
type formRow int

const (
	rowDescription formRow = iota
	rowType
	rowPriority
	rowCount
)

// Form edits one requirement. Up and down move between rows; left and
// right cycle the type and priority.
type Form struct {
	styles      *styles.Styles
	id          string
	description *input.Field
	typeIdx     int
	priorityIdx int
	row         formRow
}

func newForm(s *styles.Styles, r domain.Requirement) *Form {
	f := &Form{
		styles:      s,
		id:          r.ID,
		description: input.NewField(s, "Description", ""),
		typeIdx:     indexOf(domain.AllRequirementTypes(), r.Type),
		priorityIdx: indexOf(domain.AllPriorities(), r.Priority),
	}
	f.description.SetValue(r.Description)
	return f
}

func indexOf[T comparable](all []T, v T) int {
	for i, x := range all {
		if x == v {
			return i
		}
	}
	return 0
}

// Requirement returns the requirement as currently edited.
func (f *Form) Requirement() domain.Requirement {
	return domain.Requirement{
		ID:          f.id,
		Type:        domain.AllRequirementTypes()[f.typeIdx],
		Description: strings.TrimSpace(f.description.Value()),
		Priority:    domain.AllPriorities()[f.priorityIdx],
	}
}

// Update handles form navigation and editing.
func (f *Form) Update(msg tea.KeyMsg) (*Form, tea.Cmd) {
	switch msg.String() {
	case "up":
		f.focus((f.row + rowCount - 1) % rowCount)
		return f, nil
	case "down":
		f.focus((f.row + 1) % rowCount)
		return f, nil
	case "left", "right":
		if f.row != rowDescription {
			f.cycle(msg.String() == "right")
			return f, nil
		}
	}

	if f.row != rowDescription {
		return f, nil
	}
	var cmd tea.Cmd
	f.description, cmd = f.description.Update(msg)
	return f, cmd
}

func (f *Form) focus(row formRow) {
	f.row = row
	if row == rowDescription {
		f.description.Focus()
	} else {
		f.description.Blur()
	}
}

func (f *Form) cycle(forward bool) {
	step := -1
	if forward {
		step = 1
	}
	switch f.row {
	case rowType:
		n := len(domain.AllRequirementTypes())
		f.typeIdx = (f.typeIdx + step + n) % n
	case rowPriority:
		n := len(domain.AllPriorities())
		f.priorityIdx = (f.priorityIdx + step + n) % n
	case rowDescription, rowCount:
	}
}

// View renders the form.
func (f *Form) View() string {
	r := f.Requirement()

	var b strings.Builder
	b.WriteString(f.styles.Subtitle.Render(fmt.Sprintf("Edit requirement %s", f.id)))
	b.WriteString("\n\n")
	b.WriteString(f.description.View())
	b.WriteString("\n\n")
	b.WriteString(f.selector(rowType, "Type", f.styles.TypeBadge(r.Type)))
	b.WriteString("\n")
	b.WriteString(f.selector(rowPriority, "Priority", f.styles.PriorityLabel(r.Priority)))
	b.WriteString("\n\n")
	b.WriteString(f.styles.Help.Render("[↑/↓] Field  [←/→] Change  [Enter] Save  [Esc] Cancel"))
	return b.String()
}

func (f *Form) selector(row formRow, label, value string) string {
	cursor := "  "
	if f.row == row {
		cursor = "> "
	}
	return cursor + f.styles.Title.Render(label+": ") + "‹ " + value + " ›"
}
