// Package extract converts admitted files into plain text.
//
// Rich formats (PDF, Word, images) go through optional backends. When a
// backend is missing or fails, extraction degrades to a raw text decode
// instead of failing: partial evidence is better than none.
package extract

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Stage names a point in the extraction of one file
type Stage string

const (
	StageStarted  Stage = "started"
	StageBackend  Stage = "backend"  // A format backend is running
	StageFallback Stage = "fallback" // Degraded to raw text
	StageDone     Stage = "done"
)

// Progress is reported on the optional progress side channel
type Progress struct {
	Name    string // File name
	Stage   Stage
	Backend string // Tool in use, when Stage is StageBackend
}

// ProgressFunc observes extraction progress. It never affects the result.
type ProgressFunc func(Progress)

// Extractor dispatches files to format-specific strategies
type Extractor struct {
	runner   CommandRunner
	lookPath LookPathFunc
	progress ProgressFunc

	pdfTool string
	docTool string
	ocrTool string
	ocrLang string
}

// Option configures an Extractor
type Option func(*Extractor)

// WithRunner replaces the command runner used for backends
func WithRunner(r CommandRunner) Option {
	return func(e *Extractor) { e.runner = r }
}

// WithLookPath replaces the tool availability check
func WithLookPath(fn LookPathFunc) Option {
	return func(e *Extractor) { e.lookPath = fn }
}

// WithProgress registers a progress observer
func WithProgress(fn ProgressFunc) Option {
	return func(e *Extractor) { e.progress = fn }
}

// New creates an extractor using the configured tool names
func New(cfg model.ExtractConfig, opts ...Option) *Extractor {
	e := &Extractor{
		runner:   ExecRunner{},
		lookPath: exec.LookPath,
		pdfTool:  cfg.PDFToText,
		docTool:  cfg.Antiword,
		ocrTool:  cfg.Tesseract,
		ocrLang:  cfg.OCRLanguage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the best-effort text of f. It never fails: backend
// errors are logged and masked behind fallback content.
func (e *Extractor) Extract(ctx context.Context, f model.File, kind model.FileKind) string {
	e.report(Progress{Name: f.Name, Stage: StageStarted})
	defer e.report(Progress{Name: f.Name, Stage: StageDone})

	var (
		text    string
		err     error
		backend string
	)

	switch kind {
	case model.KindPDF:
		backend = e.pdfTool
		text, err = e.guard(func() (string, error) { return e.extractPDF(ctx, f) })
	case model.KindWord:
		backend = "word"
		text, err = e.guard(func() (string, error) { return e.extractWord(ctx, f) })
	case model.KindImage:
		return e.extractImage(ctx, f)
	default:
		return DecodeText(f.Data)
	}

	if err == nil {
		return text
	}

	log.Warn().Err(err).Str("file", f.Name).Str("backend", backend).Msg("extraction failed; using raw text")
	e.report(Progress{Name: f.Name, Stage: StageFallback})
	return DecodeText(f.Data)
}

// Available reports whether an external tool can be used
func (e *Extractor) Available(tool string) bool {
	if tool == "" {
		return false
	}
	_, err := e.lookPath(tool)
	return err == nil
}

// requireTool returns ErrBackendUnavailable when tool is not installed
func (e *Extractor) requireTool(tool string) error {
	if !e.Available(tool) {
		if tool == "" {
			return fmt.Errorf("backend disabled: %w", model.ErrBackendUnavailable)
		}
		return fmt.Errorf("%s not found: %w", tool, model.ErrBackendUnavailable)
	}
	return nil
}

// guard converts a backend panic into an error
func (e *Extractor) guard(fn func() (string, error)) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return fn()
}

func (e *Extractor) report(p Progress) {
	if e.progress != nil {
		e.progress(p)
	}
}
