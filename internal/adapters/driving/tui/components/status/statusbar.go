// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady  State = "ready"
	StateBusy   State = "busy"
	StateError  State = "error"
	StateNotice State = "notice"
)

// Bar displays session status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	spinner  spinner.Model
	state    State
	op       domain.Operation
	message  string
	count    int
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &Bar{
		styles:   s,
		keymap:   km,
		spinner:  sp,
		state:    StateReady,
		bindings: km.ShortHelp(),
		width:    80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while an operation is in flight.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || s.state != StateBusy {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateBusy:
		return s.spinner.View() + " " + s.styles.Muted.Render(busyLabel(s.op))
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(s.message)
		}
		return s.styles.Error.Render("Error")
	case StateNotice:
		return s.styles.Success.Render(s.message)
	case StateReady:
		if s.count > 0 {
			return s.styles.Normal.Render(fmt.Sprintf("%d requirements", s.count))
		}
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

func busyLabel(op domain.Operation) string {
	switch op {
	case domain.OpSendMessage, domain.OpStart, domain.OpApplyFeedback:
		return "Thinking..."
	case domain.OpClassify:
		return "Classifying..."
	case domain.OpGenerateStories:
		return "Writing user stories..."
	case domain.OpIdentifyStakeholders:
		return "Identifying stakeholders..."
	case domain.OpGenerateReport:
		return "Generating report..."
	case domain.OpSpeak:
		return "Generating audio..."
	default:
		return "Working..."
	}
}

// StartOperation switches to the busy state and starts the spinner.
func (s *Bar) StartOperation(op domain.Operation) tea.Cmd {
	s.state = StateBusy
	s.op = op
	s.message = ""
	return s.spinner.Tick
}

// FinishOperation leaves the busy state. A non-nil err is shown with the
// operation's failure title.
func (s *Bar) FinishOperation(op domain.Operation, err error) {
	s.op = ""
	if err == nil {
		s.state = StateReady
		s.message = ""
		return
	}
	s.state = StateError
	s.message = fmt.Sprintf("%s: %s", op.FailureTitle(), domain.UserMessage(err))
}

// SetNotice shows a transient confirmation.
func (s *Bar) SetNotice(text string) {
	s.state = StateNotice
	s.message = text
}

// SetError shows an error that is not tied to an operation.
func (s *Bar) SetError(err error) {
	s.state = StateError
	s.message = domain.UserMessage(err)
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Operation returns the in-flight operation, if any.
func (s *Bar) Operation() domain.Operation {
	return s.op
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetRequirementCount sets the requirement count shown when idle.
func (s *Bar) SetRequirementCount(count int) {
	s.count = count
}

// RequirementCount returns the requirement count.
func (s *Bar) RequirementCount() int {
	return s.count
}

// SetBindings replaces the keybinding hints.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.op = ""
	s.message = ""
}
