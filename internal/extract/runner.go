package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner runs an external extraction tool, feeding stdin and returning stdout.
// Tests substitute it to avoid depending on installed binaries.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Run executes name with args and returns its stdout
func (ExecRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// LookPathFunc reports where a tool is installed
type LookPathFunc func(file string) (string, error)

// InstallInstructions describes how to enable the optional backends
func InstallInstructions() string {
	return `Optional extraction tools (claimcheck falls back to raw text without them):

  PDF (pdftotext):   brew install poppler     | apt install poppler-utils
  Word .doc:         brew install antiword    | apt install antiword
  Images (OCR):      brew install tesseract   | apt install tesseract-ocr`
}
