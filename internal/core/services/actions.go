package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/reqbot-cli/internal/logger"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

const wavDataURIPrefix = "data:audio/wav;base64,"

// Ensure ReportActionService implements the interface.
var _ driving.ReportActionService = (*ReportActionService)(nil)

// ReportActionService copies reports and plays narration.
type ReportActionService struct {
	session driving.SessionService

	// Overridable for tests.
	copyText func(text string) error
	open     func(path string) error
	tempDir  string
}

// NewReportActionService creates a new action service over a session.
func NewReportActionService(session driving.SessionService) *ReportActionService {
	return &ReportActionService{
		session:  session,
		copyText: copyToClipboard,
		open:     openPath,
		tempDir:  os.TempDir(),
	}
}

// CopyReport renders the current report and copies it to the clipboard.
func (s *ReportActionService) CopyReport(_ context.Context, format domain.ReportFormat) error {
	var buf bytes.Buffer
	if err := s.session.ExportReport(&buf, format); err != nil {
		return err
	}
	if err := s.copyText(buf.String()); err != nil {
		return fmt.Errorf("copy report: %w", err)
	}
	return nil
}

// PlayAudio decodes the data URI into a temporary WAV file and opens it.
func (s *ReportActionService) PlayAudio(_ context.Context, dataURI string) error {
	if !strings.HasPrefix(dataURI, wavDataURIPrefix) {
		return fmt.Errorf("%w: not a WAV data URI", domain.ErrInvalidInput)
	}
	audio, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, wavDataURIPrefix))
	if err != nil {
		return fmt.Errorf("%w: decode audio: %w", domain.ErrInvalidInput, err)
	}

	f, err := os.CreateTemp(s.tempDir, "reqbot-*.wav")
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close audio file: %w", err)
	}

	logger.Debug("playing narration from %s", f.Name())
	return s.open(f.Name())
}

// copyToClipboard copies text to the system clipboard using OS-specific commands.
func copyToClipboard(text string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("pbcopy")
	case osLinux:
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			return fmt.Errorf("no clipboard utility found (install xclip or wl-clipboard)")
		}
	case osWindows:
		cmd = exec.Command("cmd", "/c", "clip")
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// openPath opens a file with the platform's default application.
func openPath(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("open", path)
	case osLinux:
		cmd = exec.Command("xdg-open", path)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
