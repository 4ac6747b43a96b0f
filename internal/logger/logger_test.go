package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestVerboseGatedLevels(t *testing.T) {
	defer reset()

	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("test message %s", "arg") }, "[DEBUG] test message arg\n"},
		{"info", func() { Info("info message %d", 42) }, "[INFO] info message 42\n"},
		{"warn", func() { Warn("warning message") }, "[WARN] warning message\n"},
		{"section", func() { Section("Classify") }, "\n=== Classify ===\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetOutput(&buf)

			SetVerbose(false)
			tt.log()
			if buf.Len() > 0 {
				t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
			}

			SetVerbose(true)
			tt.log()
			if buf.String() != tt.want {
				t.Errorf("unexpected output: %q", buf.String())
			}
		})
	}
}

func TestError_AlwaysPrinted(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("collaborator failed: %s", "timeout")

	if buf.String() != "[ERROR] collaborator failed: timeout\n" {
		t.Errorf("unexpected error output: %q", buf.String())
	}
}

func TestElapsed(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Elapsed("classify")()

	if !strings.HasPrefix(buf.String(), "[DEBUG] classify took ") {
		t.Errorf("unexpected elapsed output: %q", buf.String())
	}
}

func TestToFile(t *testing.T) {
	defer reset()

	path := filepath.Join(t.TempDir(), "logs", "reqbot.log")
	closer, err := ToFile(path)
	if err != nil {
		t.Fatalf("ToFile: %v", err)
	}

	Error("written to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	SetOutput(io.Discard)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "[ERROR] written to file\n" {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer reset()

	SetOutput(io.Discard)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
