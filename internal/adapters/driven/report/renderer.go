// Package report renders requirements reports as markdown or plain text tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.ReportRenderer = (*Renderer)(nil)

// DefaultWrapWidth caps description columns in plain text output.
const DefaultWrapWidth = 60

// Renderer writes reports using go-pretty tables.
type Renderer struct {
	wrapWidth int
}

// NewRenderer creates a report renderer.
func NewRenderer() *Renderer {
	return &Renderer{wrapWidth: DefaultWrapWidth}
}

// Render writes report to w in the given format.
func (r *Renderer) Render(w io.Writer, report domain.Report, format domain.ReportFormat) error {
	var out string
	switch format {
	case domain.ReportFormatMarkdown:
		out = r.markdown(report)
	case domain.ReportFormatText:
		out = r.text(report)
	default:
		return fmt.Errorf("%w: unknown report format %q", domain.ErrInvalidInput, format)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (r *Renderer) markdown(report domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", report.Title)

	b.WriteString("## Requirements\n\n")
	b.WriteString(requirementsTable(report.Requirements, table.StyleDefault).RenderMarkdown())
	b.WriteString("\n")

	if len(report.Stories) > 0 {
		b.WriteString("\n## User Stories\n")
		for i, s := range report.Stories {
			fmt.Fprintf(&b, "\n### %d. %s\n\n", i+1, storySentence(s))
			for _, c := range s.AcceptanceCriteria {
				fmt.Fprintf(&b, "- %s\n", c)
			}
		}
	}

	if len(report.Stakeholders) > 0 {
		b.WriteString("\n## Stakeholders\n\n")
		b.WriteString(stakeholdersTable(report.Stakeholders, table.StyleDefault).RenderMarkdown())
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) text(report domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", report.Title, strings.Repeat("=", len(report.Title)))

	reqs := requirementsTable(report.Requirements, table.StyleLight)
	reqs.SetColumnConfigs([]table.ColumnConfig{{Name: "Description", WidthMax: r.wrapWidth}})
	b.WriteString("Requirements\n")
	b.WriteString(reqs.Render())
	b.WriteString("\n")

	if len(report.Stories) > 0 {
		b.WriteString("\nUser Stories\n")
		for i, s := range report.Stories {
			fmt.Fprintf(&b, "\n%d. %s\n", i+1, storySentence(s))
			for _, c := range s.AcceptanceCriteria {
				fmt.Fprintf(&b, "   * %s\n", c)
			}
		}
	}

	if len(report.Stakeholders) > 0 {
		st := stakeholdersTable(report.Stakeholders, table.StyleLight)
		st.SetColumnConfigs([]table.ColumnConfig{{Name: "Description", WidthMax: r.wrapWidth}})
		b.WriteString("\nStakeholders\n")
		b.WriteString(st.Render())
		b.WriteString("\n")
	}
	return b.String()
}

// newTable returns a writer in style that keeps header case as written.
func newTable(style table.Style) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.Style().Format.Header = text.FormatDefault
	return tw
}

func requirementsTable(reqs []domain.Requirement, style table.Style) table.Writer {
	tw := newTable(style)
	tw.AppendHeader(table.Row{"ID", "Type", "Description", "Priority"})
	for _, req := range reqs {
		tw.AppendRow(table.Row{req.ID, req.Type.Description(), req.Description, req.Priority})
	}
	return tw
}

func stakeholdersTable(stakeholders []domain.Stakeholder, style table.Style) table.Writer {
	tw := newTable(style)
	tw.AppendHeader(table.Row{"Role", "Description"})
	for _, s := range stakeholders {
		tw.AppendRow(table.Row{s.Role, s.Description})
	}
	return tw
}

func storySentence(s domain.UserStory) string {
	return fmt.Sprintf("As a %s, I want to %s so that %s.", s.UserPersona, s.Feature, s.Benefit)
}
