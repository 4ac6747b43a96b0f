// Package dashboard provides the requirements dashboard view for the TUI.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/commands"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
)

// Mode is the dashboard's interaction state.
type Mode int

const (
	// ModeList navigates the requirement list.
	ModeList Mode = iota
	// ModeFilter types into the filter box.
	ModeFilter
	// ModeEdit edits the selected requirement.
	ModeEdit
	// ModeConfirmDelete waits for y/n before deleting.
	ModeConfirmDelete
)

// View lists, filters and edits requirements.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	session driving.SessionService
	actions driving.ReportActionService
	ctx     context.Context
	list    *list.RequirementList
	filter  *input.Field
	form    *Form
	mode    Mode
	query   string
	snap    domain.SessionSnapshot
	// inflight counts operations dispatched from the dashboard that
	// have not completed.
	inflight map[domain.Operation]int
	width    int
	height   int
}

// NewView creates a new dashboard view.
func NewView(s *styles.Styles, session driving.SessionService, actions driving.ReportActionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	filter := input.NewField(s, "Filter", "description contains...")
	filter.Blur()

	return &View{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		session:  session,
		actions:  actions,
		ctx:      context.Background(),
		list:     list.NewRequirementList(s),
		filter:   filter,
		inflight: make(map[domain.Operation]int),
		width:    80,
		height:   24,
	}
}

// SetContext sets the context passed to session operations.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init initialises the dashboard and loads requirements.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	return nil
}

// Refresh reloads requirements from the session, keeping the filter.
func (v *View) Refresh() {
	v.snap = v.session.Snapshot()
	v.list.SetRequirements(v.session.FilterRequirements(v.query))
}

// Update handles messages for the dashboard.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch v.mode {
		case ModeFilter:
			return v.updateFilter(msg)
		case ModeEdit:
			return v.updateEdit(msg)
		case ModeConfirmDelete:
			return v.updateConfirm(msg)
		case ModeList:
			return v.updateList(msg)
		}

	case messages.OperationCompleted:
		if v.inflight[msg.Op] <= 1 {
			delete(v.inflight, msg.Op)
		} else {
			v.inflight[msg.Op]--
		}
		v.Refresh()
		return v, nil
	}

	var cmd tea.Cmd
	switch {
	case v.mode == ModeFilter:
		v.filter, cmd = v.filter.Update(msg)
	case v.mode == ModeEdit && v.form != nil:
		v.form.description, cmd = v.form.description.Update(msg)
	}
	return v, cmd
}

func (v *View) updateList(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up), keymap.Matches(key, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
		return v, nil
	case keymap.Matches(key, v.keymap.Filter):
		v.mode = ModeFilter
		return v, v.filter.Focus()
	case keymap.Matches(key, v.keymap.Edit), keymap.Matches(key, v.keymap.Select):
		return v, v.startEdit()
	case keymap.Matches(key, v.keymap.Delete):
		if v.list.SelectedRequirement() != nil && !v.Busy() {
			v.mode = ModeConfirmDelete
		}
		return v, nil
	case keymap.Matches(key, v.keymap.Copy):
		if v.actions == nil {
			return v, nil
		}
		return v, commands.CopyReport(v.ctx, v.actions)
	case keymap.Matches(key, v.keymap.Play):
		if v.Busy() {
			return v, nil
		}
		return v, v.dispatch(domain.OpSpeak, commands.Speak(v.ctx, v.session))
	}
	return v, nil
}

func (v *View) startEdit() tea.Cmd {
	r := v.list.SelectedRequirement()
	if r == nil || v.Busy() {
		return nil
	}
	if err := v.session.SelectRequirement(r.ID); err != nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: err} }
	}
	v.form = newForm(v.styles, *r)
	v.mode = ModeEdit
	return v.form.description.Focus()
}

func (v *View) updateFilter(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.mode = ModeList
		v.filter.Blur()
		return v, nil
	case tea.KeyEsc:
		v.mode = ModeList
		v.filter.Reset()
		v.filter.Blur()
		v.query = ""
		v.Refresh()
		return v, nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.query = v.filter.Value()
	v.Refresh()
	return v, cmd
}

func (v *View) updateEdit(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.mode = ModeList
		v.form = nil
		return v, nil
	case tea.KeyEnter:
		r := v.form.Requirement()
		v.mode = ModeList
		v.form = nil
		return v, v.dispatch(domain.OpEditRequirement, commands.EditRequirement(v.session, r))
	}
	var cmd tea.Cmd
	v.form, cmd = v.form.Update(msg)
	return v, cmd
}

func (v *View) updateConfirm(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.mode = ModeList
	if msg.String() != "y" {
		return v, nil
	}
	r := v.list.SelectedRequirement()
	if r == nil {
		return v, nil
	}
	return v, v.dispatch(domain.OpDeleteRequirement, commands.DeleteRequirement(v.session, r.ID))
}

func (v *View) dispatch(op domain.Operation, cmd tea.Cmd) tea.Cmd {
	v.inflight[op]++
	return cmd
}

// Busy reports whether a dashboard operation is pending or the session
// is running one.
func (v *View) Busy() bool {
	return len(v.inflight) > 0 || v.session.Busy()
}

// View renders the dashboard.
func (v *View) View() string {
	if v.mode == ModeEdit && v.form != nil {
		return v.form.View()
	}

	var b strings.Builder
	b.WriteString(v.filter.View())
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render(v.summary()))

	if v.mode == ModeConfirmDelete {
		if r := v.list.SelectedRequirement(); r != nil {
			b.WriteString("\n\n")
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete requirement %s? [y/N]", r.ID)))
		}
	}
	return b.String()
}

func (v *View) summary() string {
	classified := "not classified"
	if len(v.snap.Classified) > 0 {
		classified = fmt.Sprintf("%d classified", len(v.snap.Classified))
	}
	shown := fmt.Sprintf("%d of %d shown", v.list.Count(), len(v.snap.Requirements))
	return fmt.Sprintf("%s · %s · %d user stories · %d stakeholders",
		shown, classified, len(v.snap.Stories), len(v.snap.Stakeholders))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.filter.SetWidth(width)
	h := height - 8
	if h < 3 {
		h = 3
	}
	v.list.SetDimensions(width, h)
}

// Mode returns the current interaction mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Capturing reports whether keystrokes go to a text field, so global
// bindings must not intercept them.
func (v *View) Capturing() bool {
	return v.mode != ModeList
}

// Query returns the active filter.
func (v *View) Query() string {
	return v.query
}

// List returns the requirement list component.
func (v *View) List() *list.RequirementList {
	return v.list
}
