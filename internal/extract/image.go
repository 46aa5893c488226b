package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/claimcheck/internal/model"
)

// ImageUnavailable is the content of an image source when OCR cannot run
func ImageUnavailable(name string) string {
	return fmt.Sprintf("[Image: %s]\n(OCR unavailable: image text could not be extracted)", name)
}

// ImageNoText is the content of an image source when OCR found nothing
func ImageNoText(name string) string {
	return fmt.Sprintf("[Image: %s]\n(No text detected in image)", name)
}

// extractImage never falls back to a raw decode: image bytes are not text
func (e *Extractor) extractImage(ctx context.Context, f model.File) string {
	text, err := e.guard(func() (string, error) { return e.runOCR(ctx, f) })
	if err != nil {
		log.Warn().Err(err).Str("file", f.Name).Str("backend", e.ocrTool).Msg("ocr unavailable")
		e.report(Progress{Name: f.Name, Stage: StageFallback})
		return ImageUnavailable(f.Name)
	}

	if text == "" {
		return ImageNoText(f.Name)
	}
	return text
}

func (e *Extractor) runOCR(ctx context.Context, f model.File) (string, error) {
	if err := e.requireTool(e.ocrTool); err != nil {
		return "", err
	}

	e.report(Progress{Name: f.Name, Stage: StageBackend, Backend: e.ocrTool})

	args := []string{"stdin", "stdout"}
	if e.ocrLang != "" {
		args = append(args, "-l", e.ocrLang)
	}

	out, err := e.runner.Run(ctx, f.Data, e.ocrTool, args...)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return strings.TrimSpace(DecodeText(out)), nil
}
