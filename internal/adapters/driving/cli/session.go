package cli

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

const wavDataURIPrefix = "data:audio/wav;base64,"

var (
	startJSON    bool
	reportFormat string
	reportOutput string
	reportCopy   bool
	speakOutput  string
)

var startCmd = &cobra.Command{
	Use:   "start <idea>",
	Short: "Draft requirements from an application idea",
	Long: `Ask the LLM for an initial requirement list for an application idea
and print it.

Example:
  reqbot start "a marketplace for second-hand bikes"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStart,
}

var reportCmd = &cobra.Command{
	Use:   "report <idea>",
	Short: "Generate a full requirements report",
	Long: `Draft requirements from an application idea, then classify them,
write user stories for the functional ones and identify stakeholders.

The report is written to stdout unless --output is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

var speakCmd = &cobra.Command{
	Use:   "speak <idea>",
	Short: "Read drafted requirements out loud",
	Long: `Draft requirements from an application idea and narrate them.
Requires 'reqbot settings speech'.

The WAV file is played with the system player unless --output is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSpeak,
}

func init() {
	startCmd.Flags().BoolVar(&startJSON, "json", false, "output requirements as JSON")

	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", string(domain.ReportFormatMarkdown),
		"report format: markdown or text")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to a file")
	reportCmd.Flags().BoolVar(&reportCopy, "copy", false, "copy the report to the clipboard")

	speakCmd.Flags().StringVarP(&speakOutput, "output", "o", "", "write the WAV file instead of playing it")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(speakCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	reqs, err := sessionService.Start(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return operationError(domain.OpStart, err)
	}

	if startJSON {
		data, err := json.MarshalIndent(reqs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal requirements: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printRequirements(cmd, reqs)
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	format := domain.ReportFormat(reportFormat)
	if !format.IsValid() {
		return fmt.Errorf("unknown report format %q (use markdown or text)", reportFormat)
	}

	ctx := cmd.Context()
	if _, err := sessionService.Start(ctx, strings.Join(args, " ")); err != nil {
		return operationError(domain.OpStart, err)
	}
	if _, err := sessionService.GenerateReport(ctx); err != nil {
		return operationError(domain.OpGenerateReport, err)
	}

	if reportCopy {
		if actionService == nil {
			return errors.New("action service not configured")
		}
		if err := actionService.CopyReport(ctx, format); err != nil {
			return err
		}
		cmd.PrintErrln("Report copied to clipboard.")
	}

	if reportOutput == "" {
		return sessionService.ExportReport(cmd.OutOrStdout(), format)
	}

	f, err := os.Create(reportOutput)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	if err := sessionService.ExportReport(f, format); err != nil {
		return err
	}
	cmd.Printf("Report written to %s\n", reportOutput)
	return nil
}

func runSpeak(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	ctx := cmd.Context()
	if _, err := sessionService.Start(ctx, strings.Join(args, " ")); err != nil {
		return operationError(domain.OpStart, err)
	}
	uri, err := sessionService.Speak(ctx)
	if err != nil {
		return operationError(domain.OpSpeak, err)
	}

	if speakOutput == "" {
		if actionService == nil {
			return errors.New("action service not configured")
		}
		return actionService.PlayAudio(ctx, uri)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, wavDataURIPrefix))
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}
	if err := os.WriteFile(speakOutput, data, 0600); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	cmd.Printf("Narration written to %s\n", speakOutput)
	return nil
}

// operationError prefixes err with the operation's notification title.
func operationError(op domain.Operation, err error) error {
	return fmt.Errorf("%s: %w", op.FailureTitle(), err)
}

func printRequirements(cmd *cobra.Command, reqs []domain.Requirement) {
	if len(reqs) == 0 {
		cmd.Println("No requirements drafted.")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.AppendHeader(table.Row{"ID", "Type", "Description", "Priority"})
	for _, r := range reqs {
		tw.AppendRow(table.Row{r.ID, r.Type, r.Description, r.Priority})
	}
	tw.Render()
}
