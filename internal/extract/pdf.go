package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// extractPDF runs pdftotext over stdin and joins non-empty pages with a blank line
func (e *Extractor) extractPDF(ctx context.Context, f model.File) (string, error) {
	if err := e.requireTool(e.pdfTool); err != nil {
		return "", err
	}

	e.report(Progress{Name: f.Name, Stage: StageBackend, Backend: e.pdfTool})

	out, err := e.runner.Run(ctx, f.Data, e.pdfTool, "-enc", "UTF-8", "-", "-")
	if err != nil {
		return "", fmt.Errorf("pdf extraction: %w", err)
	}

	return joinPages(DecodeText(out)), nil
}

// joinPages splits pdftotext output on form feeds
func joinPages(raw string) string {
	pages := strings.Split(raw, "\f")
	kept := make([]string, 0, len(pages))
	for _, page := range pages {
		page = strings.TrimSpace(page)
		if page != "" {
			kept = append(kept, page)
		}
	}
	return strings.Join(kept, "\n\n")
}
