// Package commands wraps session operations as Bubbletea commands.
// Each command runs off the UI goroutine and reports back with a
// messages.OperationCompleted.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reqbot-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
)

// Started announces op so the status bar can show progress.
func Started(op domain.Operation) tea.Cmd {
	return func() tea.Msg {
		return messages.OperationStarted{Op: op}
	}
}

// run announces op and then runs it. The two are sequenced so
// OperationStarted always reaches the model before OperationCompleted.
func run(op domain.Operation, fn func() (any, error)) tea.Cmd {
	return tea.Sequence(Started(op), func() tea.Msg {
		result, err := fn()
		return messages.OperationCompleted{Op: op, Result: result, Err: err}
	})
}

// SendMessage continues the conversation.
func SendMessage(ctx context.Context, s driving.SessionService, text string) tea.Cmd {
	return run(domain.OpSendMessage, func() (any, error) {
		return s.SendMessage(ctx, text)
	})
}

// Start drafts requirements from an idea.
func Start(ctx context.Context, s driving.SessionService, idea string) tea.Cmd {
	return run(domain.OpStart, func() (any, error) {
		return s.Start(ctx, idea)
	})
}

// ApplyFeedback rewrites the requirements from feedback.
func ApplyFeedback(ctx context.Context, s driving.SessionService, feedback string) tea.Cmd {
	return run(domain.OpApplyFeedback, func() (any, error) {
		return s.ApplyFeedback(ctx, feedback)
	})
}

// Classify classifies the requirements.
func Classify(ctx context.Context, s driving.SessionService) tea.Cmd {
	return run(domain.OpClassify, func() (any, error) {
		return s.Classify(ctx)
	})
}

// GenerateStories writes user stories.
func GenerateStories(ctx context.Context, s driving.SessionService) tea.Cmd {
	return run(domain.OpGenerateStories, func() (any, error) {
		return s.GenerateStories(ctx)
	})
}

// IdentifyStakeholders lists stakeholders.
func IdentifyStakeholders(ctx context.Context, s driving.SessionService) tea.Cmd {
	return run(domain.OpIdentifyStakeholders, func() (any, error) {
		return s.IdentifyStakeholders(ctx)
	})
}

// GenerateReport runs the combined report operation.
func GenerateReport(ctx context.Context, s driving.SessionService) tea.Cmd {
	return run(domain.OpGenerateReport, func() (any, error) {
		return s.GenerateReport(ctx)
	})
}

// Speak narrates the requirements. The result is a WAV data URI.
func Speak(ctx context.Context, s driving.SessionService) tea.Cmd {
	return run(domain.OpSpeak, func() (any, error) {
		return s.Speak(ctx)
	})
}

// EditRequirement replaces a requirement.
func EditRequirement(s driving.SessionService, r domain.Requirement) tea.Cmd {
	return run(domain.OpEditRequirement, func() (any, error) {
		return r, s.EditRequirement(r)
	})
}

// DeleteRequirement removes a requirement.
func DeleteRequirement(s driving.SessionService, id string) tea.Cmd {
	return run(domain.OpDeleteRequirement, func() (any, error) {
		return id, s.DeleteRequirement(id)
	})
}

// CopyReport copies the markdown report to the clipboard.
func CopyReport(ctx context.Context, a driving.ReportActionService) tea.Cmd {
	return func() tea.Msg {
		if err := a.CopyReport(ctx, domain.ReportFormatMarkdown); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.Notice{Text: "Report copied to clipboard"}
	}
}

// PlayAudio hands a WAV data URI to the system player.
func PlayAudio(ctx context.Context, a driving.ReportActionService, uri string) tea.Cmd {
	return func() tea.Msg {
		if err := a.PlayAudio(ctx, uri); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.Notice{Text: "Playing narration"}
	}
}
