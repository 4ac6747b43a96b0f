package driven

import (
	"io"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// ReportRenderer renders a requirements report.
type ReportRenderer interface {
	// Render writes report to w in the given format.
	Render(w io.Writer, report domain.Report, format domain.ReportFormat) error
}
