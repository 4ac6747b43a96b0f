package commands

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
)

// mockSession overrides the calls under test; any other call panics on
// the nil embedded interface.
type mockSession struct {
	driving.SessionService

	startIdea string
	deleted   string
	edited    domain.Requirement
	err       error
}

func (m *mockSession) Start(_ context.Context, idea string) ([]domain.Requirement, error) {
	m.startIdea = idea
	return []domain.Requirement{{ID: "1", Description: idea}}, m.err
}

func (m *mockSession) SendMessage(_ context.Context, text string) (domain.ConversationUpdate, error) {
	return domain.ConversationUpdate{FollowUpQuestion: "Why " + text + "?"}, m.err
}

func (m *mockSession) Classify(context.Context) ([]domain.ClassifiedRequirement, error) {
	return nil, m.err
}

func (m *mockSession) Speak(context.Context) (string, error) {
	return "data:audio/wav;base64,AAAA", m.err
}

func (m *mockSession) EditRequirement(r domain.Requirement) error {
	m.edited = r
	return m.err
}

func (m *mockSession) DeleteRequirement(id string) error {
	m.deleted = id
	return m.err
}

type mockActions struct {
	copyErr error
	played  string
}

func (m *mockActions) CopyReport(context.Context, domain.ReportFormat) error {
	return m.copyErr
}

func (m *mockActions) PlayAudio(_ context.Context, uri string) error {
	m.played = uri
	return nil
}

// drain runs a sequenced command and returns its messages in order.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	_, isBatch := msg.(tea.BatchMsg)
	require.False(t, isBatch, "operations must not be batched")
	seq := reflect.ValueOf(msg)
	require.Equal(t, reflect.Slice, seq.Kind(), "expected a sequence")
	out := make([]tea.Msg, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		c, ok := seq.Index(i).Interface().(tea.Cmd)
		require.True(t, ok)
		out = append(out, c())
	}
	return out
}

// orderModel records operation messages as a program delivers them.
type orderModel struct {
	init tea.Cmd
	seen []tea.Msg
}

func (m *orderModel) Init() tea.Cmd { return m.init }

func (m *orderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case messages.OperationStarted:
		m.seen = append(m.seen, msg)
	case messages.OperationCompleted:
		m.seen = append(m.seen, msg)
		return m, tea.Quit
	}
	return m, nil
}

func (m *orderModel) View() string { return "" }

func TestRun_StartedDeliveredBeforeCompleted(t *testing.T) {
	s := &mockSession{err: domain.ErrNoRequirements}

	for i := 0; i < 50; i++ {
		m := &orderModel{init: Classify(context.Background(), s)}
		p := tea.NewProgram(m,
			tea.WithInput(nil),
			tea.WithOutput(io.Discard),
			tea.WithoutRenderer(),
			tea.WithoutSignalHandler(),
		)

		_, err := p.Run()
		require.NoError(t, err)

		require.Len(t, m.seen, 2)
		assert.IsType(t, messages.OperationStarted{}, m.seen[0])
		assert.IsType(t, messages.OperationCompleted{}, m.seen[1])
	}
}

func TestStarted(t *testing.T) {
	msg := Started(domain.OpClassify)()

	assert.Equal(t, messages.OperationStarted{Op: domain.OpClassify}, msg)
}

func TestStart(t *testing.T) {
	s := &mockSession{}

	msgs := drain(t, Start(context.Background(), s, "bike shop"))

	require.Len(t, msgs, 2)
	assert.Equal(t, messages.OperationStarted{Op: domain.OpStart}, msgs[0])
	done, ok := msgs[1].(messages.OperationCompleted)
	require.True(t, ok)
	assert.Equal(t, domain.OpStart, done.Op)
	assert.NoError(t, done.Err)
	assert.Equal(t, "bike shop", s.startIdea)
	assert.Len(t, done.Result.([]domain.Requirement), 1)
}

func TestSendMessage(t *testing.T) {
	msgs := drain(t, SendMessage(context.Background(), &mockSession{}, "login"))

	done := msgs[1].(messages.OperationCompleted)
	assert.Equal(t, domain.OpSendMessage, done.Op)
	assert.Equal(t, "Why login?", done.Result.(domain.ConversationUpdate).FollowUpQuestion)
}

func TestClassify_Error(t *testing.T) {
	s := &mockSession{err: domain.ErrBusy}

	msgs := drain(t, Classify(context.Background(), s))

	done := msgs[1].(messages.OperationCompleted)
	assert.True(t, done.Failed())
	assert.ErrorIs(t, done.Err, domain.ErrBusy)
}

func TestSpeak(t *testing.T) {
	msgs := drain(t, Speak(context.Background(), &mockSession{}))

	done := msgs[1].(messages.OperationCompleted)
	assert.Equal(t, "data:audio/wav;base64,AAAA", done.Result)
}

func TestEditRequirement(t *testing.T) {
	s := &mockSession{}
	r := domain.Requirement{ID: "2", Description: "changed"}

	msgs := drain(t, EditRequirement(s, r))

	done := msgs[1].(messages.OperationCompleted)
	assert.Equal(t, domain.OpEditRequirement, done.Op)
	assert.Equal(t, r, s.edited)
}

func TestDeleteRequirement(t *testing.T) {
	s := &mockSession{err: domain.ErrNotFound}

	msgs := drain(t, DeleteRequirement(s, "9"))

	done := msgs[1].(messages.OperationCompleted)
	assert.Equal(t, "9", s.deleted)
	assert.ErrorIs(t, done.Err, domain.ErrNotFound)
}

func TestCopyReport(t *testing.T) {
	msg := CopyReport(context.Background(), &mockActions{})()
	assert.Equal(t, messages.Notice{Text: "Report copied to clipboard"}, msg)

	failed := CopyReport(context.Background(), &mockActions{copyErr: errors.New("no clipboard")})()
	errMsg, ok := failed.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.EqualError(t, errMsg.Err, "no clipboard")
}

func TestPlayAudio(t *testing.T) {
	a := &mockActions{}

	msg := PlayAudio(context.Background(), a, "data:audio/wav;base64,AAAA")()

	assert.Equal(t, messages.Notice{Text: "Playing narration"}, msg)
	assert.Equal(t, "data:audio/wav;base64,AAAA", a.played)
}
