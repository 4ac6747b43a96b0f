// Package tui provides an interactive terminal user interface for reqbot.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session drives the elicitation session.
	Session driving.SessionService

	// Actions copies reports and plays narration. Optional.
	Actions driving.ReportActionService

	// Settings exposes the active settings to the help view. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.SessionService, actions driving.ReportActionService) *Ports {
	return &Ports{
		Session: session,
		Actions: actions,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
