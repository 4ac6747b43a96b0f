// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation with the assistant.
	ViewChat ViewType = iota
	// ViewDashboard lists, filters and edits requirements.
	ViewDashboard
	// ViewMenu is the main navigation menu.
	ViewMenu
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewDashboard:
		return "dashboard"
	case ViewMenu:
		return "menu"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// OperationStarted is sent when a session operation is dispatched.
type OperationStarted struct {
	Op domain.Operation
}

// OperationCompleted carries the outcome of a session operation. Result
// holds the operation's return value, if any.
type OperationCompleted struct {
	Op     domain.Operation
	Result any
	Err    error
}

// Failed reports whether the operation returned an error.
func (m OperationCompleted) Failed() bool {
	return m.Err != nil
}

// Notice is a transient status line message.
type Notice struct {
	Text string
}

// ErrorOccurred signals that an error happened outside a session operation.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
