package driving

import (
	"context"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// ReportActionService hands session output to the desktop.
type ReportActionService interface {
	// CopyReport renders the current report and copies it to the system clipboard.
	CopyReport(ctx context.Context, format domain.ReportFormat) error

	// PlayAudio writes a WAV data URI to a temporary file and opens it
	// with the default audio player.
	PlayAudio(ctx context.Context, dataURI string) error
}
