// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/commands"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
)

// inputHeight is the space reserved below the conversation for the input box.
const inputHeight = 4

// ErrNothingToPlay is returned by /play before any narration was generated.
var ErrNothingToPlay = errors.New("no narration generated yet, type /speak first")

// ErrNoActions is returned when desktop actions are not configured.
var ErrNoActions = errors.New("clipboard and audio playback are not available")

// View is the conversation with the assistant.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	session  driving.SessionService
	actions  driving.ReportActionService
	ctx      context.Context
	viewport viewport.Model
	input    *input.Field
	inflight map[domain.Operation]int
	audio    string
	width    int
	height   int
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, session driving.SessionService, actions driving.ReportActionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		session:  session,
		actions:  actions,
		ctx:      context.Background(),
		viewport: viewport.New(80, 20),
		input:    input.NewField(s, "You", "Describe your idea, or type /help"),
		inflight: make(map[domain.Operation]int),
		width:    80,
		height:   24,
	}
	v.Refresh()
	return v
}

// SetContext sets the context passed to session operations.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init initialises the chat view.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	return v.input.Focus()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.ScrollUp),
			keymap.Matches(msg.String(), v.keymap.ScrollDown):
			var cmd tea.Cmd
			v.viewport, cmd = v.viewport.Update(msg)
			return v, cmd
		case keymap.Matches(msg.String(), v.keymap.Send):
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case messages.OperationStarted:
		v.Refresh()
		return v, nil

	case messages.OperationCompleted:
		v.settle(msg.Op)
		if msg.Op == domain.OpSpeak && msg.Err == nil {
			if uri, ok := msg.Result.(string); ok {
				v.audio = uri
			}
		}
		v.Refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit dispatches the input line. Lines starting with "/" are commands;
// anything else continues the conversation.
func (v *View) submit() tea.Cmd {
	if v.Busy() {
		return nil
	}
	text := v.input.Submitted()
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "/") {
		return v.command(text)
	}
	return v.dispatch(domain.OpSendMessage, commands.SendMessage(v.ctx, v.session, text))
}

// dispatch marks op as in flight until its OperationCompleted arrives.
func (v *View) dispatch(op domain.Operation, cmd tea.Cmd) tea.Cmd {
	v.inflight[op]++
	v.Refresh()
	return cmd
}

// settle clears one in-flight op. Completions for operations this view
// never dispatched are ignored.
func (v *View) settle(op domain.Operation) {
	if v.inflight[op] <= 1 {
		delete(v.inflight, op)
		return
	}
	v.inflight[op]--
}

func (v *View) command(line string) tea.Cmd {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/start":
		if arg == "" {
			return usage("/start <idea>")
		}
		return v.dispatch(domain.OpStart, commands.Start(v.ctx, v.session, arg))
	case "/feedback":
		if arg == "" {
			return usage("/feedback <what to change>")
		}
		return v.dispatch(domain.OpApplyFeedback, commands.ApplyFeedback(v.ctx, v.session, arg))
	case "/classify":
		return v.dispatch(domain.OpClassify, commands.Classify(v.ctx, v.session))
	case "/stories":
		return v.dispatch(domain.OpGenerateStories, commands.GenerateStories(v.ctx, v.session))
	case "/stakeholders":
		return v.dispatch(domain.OpIdentifyStakeholders, commands.IdentifyStakeholders(v.ctx, v.session))
	case "/report":
		return v.dispatch(domain.OpGenerateReport, commands.GenerateReport(v.ctx, v.session))
	case "/speak":
		return v.dispatch(domain.OpSpeak, commands.Speak(v.ctx, v.session))
	case "/play":
		if v.actions == nil {
			return failed(ErrNoActions)
		}
		if v.audio == "" {
			return failed(ErrNothingToPlay)
		}
		return commands.PlayAudio(v.ctx, v.actions, v.audio)
	case "/copy":
		if v.actions == nil {
			return failed(ErrNoActions)
		}
		return commands.CopyReport(v.ctx, v.actions)
	case "/dashboard":
		return changeView(messages.ViewDashboard)
	case "/help":
		return changeView(messages.ViewHelp)
	case "/quit":
		return func() tea.Msg { return messages.Quit{} }
	default:
		return failed(fmt.Errorf("%w: unknown command %s", domain.ErrInvalidInput, name))
	}
}

func usage(text string) tea.Cmd {
	return failed(fmt.Errorf("%w: usage %s", domain.ErrInvalidInput, text))
}

func failed(err error) tea.Cmd {
	return func() tea.Msg { return messages.ErrorOccurred{Err: err} }
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

// Refresh re-renders the conversation from the session and scrolls to
// the latest turn.
func (v *View) Refresh() {
	content := renderTurns(v.styles, v.session.Turns(), v.viewport.Width)
	if v.Busy() {
		content += "\n\n" + v.styles.AssistantTurn.Render("ReqBot") + "\n" + v.styles.Muted.Render("...")
	}
	v.viewport.SetContent(content)
	v.viewport.GotoBottom()
}

// View renders the chat view.
func (v *View) View() string {
	return v.viewport.View() + "\n\n" + v.input.View()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	h := height - inputHeight
	if h < 1 {
		h = 1
	}
	v.viewport.Height = h
	v.input.SetWidth(width)
	v.Refresh()
}

// Busy reports whether an operation dispatched from this view has not
// completed yet, or the session is running one started elsewhere.
func (v *View) Busy() bool {
	return len(v.inflight) > 0 || v.session.Busy()
}

// Audio returns the last narration data URI.
func (v *View) Audio() string {
	return v.audio
}

// Input returns the current input text.
func (v *View) Input() string {
	return v.input.Value()
}
