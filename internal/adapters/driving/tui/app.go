package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/commands"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/views/dashboard"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// chromeHeight is the number of rows taken by the header and status bar.
const chromeHeight = 3

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is passed to every session operation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView      *menu.View
	chatView      *chat.View
	dashboardView *dashboard.View
	statusBar     *status.Bar

	// currentView tracks which view is active; previousView is where
	// the help view returns to.
	currentView  messages.ViewType
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w: %w", ErrInvalidPorts, err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		menuView:      menu.NewView(s),
		chatView:      chat.NewView(s, ports.Session, ports.Actions),
		dashboardView: dashboard.NewView(s, ports.Session, ports.Actions),
		statusBar:     status.NewBar(s, km),
		currentView:   messages.ViewChat,
		previousView:  messages.ViewChat,
	}
	a.syncStatus()
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.SetContext(ctx)
	a.dashboardView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("reqbot - Requirements Assistant"),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.OperationStarted:
		cmd = a.statusBar.StartOperation(msg.Op)
		a.chatView.Update(msg)
		a.dashboardView.Update(msg)
		return a, cmd

	case messages.OperationCompleted:
		a.statusBar.FinishOperation(msg.Op, msg.Err)
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.chatView.Update(msg)
		a.dashboardView.Update(msg)
		a.syncStatus()
		if uri, ok := msg.Result.(string); ok && msg.Op == domain.OpSpeak && msg.Err == nil && a.ports.Actions != nil {
			return a, commands.PlayAudio(a.ctx, a.ports.Actions, uri)
		}
		return a, nil

	case spinner.TickMsg:
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd

	case messages.Notice:
		a.statusBar.SetNotice(msg.Text)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink, mouse) to the active view.
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDashboard:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// handleKey applies global bindings, then forwards to the active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewChat:
		switch {
		case keymap.Matches(key, a.keymap.SwitchView):
			return a, a.switchTo(messages.ViewDashboard)
		case keymap.Matches(key, a.keymap.Back):
			return a, a.switchTo(messages.ViewMenu)
		}
		a.chatView, cmd = a.chatView.Update(msg)

	case messages.ViewDashboard:
		if !a.dashboardView.Capturing() {
			switch {
			case keymap.Matches(key, a.keymap.SwitchView):
				return a, a.switchTo(messages.ViewChat)
			case keymap.Matches(key, a.keymap.Back):
				return a, a.switchTo(messages.ViewMenu)
			case keymap.Matches(key, a.keymap.Help):
				return a, a.switchTo(messages.ViewHelp)
			}
		}
		a.dashboardView, cmd = a.dashboardView.Update(msg)

	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)

	case messages.ViewHelp:
		if keymap.Matches(key, a.keymap.Back) || keymap.Matches(key, a.keymap.Help) ||
			keymap.Matches(key, a.keymap.Quit) {
			return a, a.switchTo(a.previousView)
		}
	}
	return a, cmd
}

// switchTo activates view and returns its initialisation command.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	if view == messages.ViewHelp && a.currentView != messages.ViewHelp {
		a.previousView = a.currentView
	}
	a.currentView = view
	a.syncStatus()

	switch view {
	case messages.ViewChat:
		return a.chatView.Init()
	case messages.ViewDashboard:
		return a.dashboardView.Init()
	case messages.ViewMenu:
		a.menuView.SetSummary(a.ports.Session.Snapshot())
		return a.menuView.Init()
	case messages.ViewHelp:
	}
	return nil
}

// syncStatus refreshes the status bar hints and requirement count.
func (a *App) syncStatus() {
	switch a.currentView {
	case messages.ViewChat:
		a.statusBar.SetBindings(a.keymap.ChatHelp())
	case messages.ViewDashboard:
		a.statusBar.SetBindings(a.keymap.DashboardHelp())
	case messages.ViewMenu, messages.ViewHelp:
		a.statusBar.SetBindings(a.keymap.ShortHelp())
	}
	snap := a.ports.Session.Snapshot()
	a.statusBar.SetRequirementCount(len(snap.Requirements))
	a.menuView.SetSummary(snap)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewDashboard:
		body = a.dashboardView.View()
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewHelp:
		body = a.viewHelp() + a.settingsSummary()
	}

	return a.header() + "\n" + body + "\n" + a.statusBar.View()
}

func (a *App) header() string {
	tabs := []struct {
		label string
		view  messages.ViewType
	}{
		{"Chat", messages.ViewChat},
		{"Requirements", messages.ViewDashboard},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.view == a.currentView {
			parts = append(parts, a.styles.Selected.Render(" "+t.label+" "))
		} else {
			parts = append(parts, a.styles.Muted.Render(" "+t.label+" "))
		}
	}
	return a.styles.Title.Render("ReqBot") + "  " + strings.Join(parts, " ")
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Chat:
  (type)               Describe your idea or answer the follow-up question
  enter                Send
  pgup/pgdn            Scroll the conversation
  /start <idea>        Draft requirements from an idea
  /feedback <text>     Rewrite the requirements from feedback
  /classify            Classify requirements
  /stories             Write user stories for functional requirements
  /stakeholders        Identify stakeholders
  /report              Classify, write stories and identify stakeholders
  /speak, /play        Narrate the requirements, replay the narration
  /copy                Copy the markdown report to the clipboard
  /dashboard, /help    Switch view

Requirements:
  j/k, ↑/↓             Navigate
  e, enter             Edit selected requirement
  d                    Delete selected requirement
  /                    Filter by description
  c                    Copy report
  p                    Narrate requirements

Global:
  tab                  Switch between chat and requirements
  esc                  Back to menu
  ctrl+c               Quit

[esc] back`
}

// settingsSummary names the configured providers under the help text.
func (a *App) settingsSummary() string {
	if a.ports.Settings == nil {
		return ""
	}
	settings, err := a.ports.Settings.Get()
	if err != nil {
		return ""
	}
	line := fmt.Sprintf("\n\nLLM: %s (%s)", settings.LLM.Provider.Description(), settings.LLM.Model)
	if settings.Speech.IsConfigured() {
		line += fmt.Sprintf("  Narration: %s", settings.Speech.Voice)
	} else {
		line += "  Narration: not configured"
	}
	return a.styles.Muted.Render(line)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// Status returns the status bar.
func (a *App) Status() *status.Bar {
	return a.statusBar
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	body := height - chromeHeight
	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, body)
	a.dashboardView.SetDimensions(width, body)
	a.statusBar.SetWidth(width)
}
