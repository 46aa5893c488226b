package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/model"
)

// Renderer presents sources, progress and verdicts as text
type Renderer struct {
	out     io.Writer // Results
	status  io.Writer // Progress lines
	verbose bool
}

// NewRenderer creates a renderer writing results to out and progress to status
func NewRenderer(out, status io.Writer, verbose bool) *Renderer {
	return &Renderer{out: out, status: status, verbose: verbose}
}

// Observe prints one status line per session event. Use it as the session observer.
func (r *Renderer) Observe(e Event) {
	switch e.Kind {
	case EventFileStarted:
		fmt.Fprintf(r.status, "⚙️  Processing %s (%d remaining)\n", e.Name, e.Remaining)
	case EventExtract:
		if !r.verbose {
			return
		}
		switch e.Stage {
		case extract.StageBackend:
			fmt.Fprintf(r.status, "   using %s\n", e.Backend)
		case extract.StageFallback:
			fmt.Fprintf(r.status, "   backend unavailable, using raw text\n")
		}
	case EventFileAdded:
		fmt.Fprintf(r.status, "✓ Added %s (%s chars)\n", e.Name, formatCount(charCount(e.Source)))
	case EventFileRejected:
		fmt.Fprintf(r.status, "✗ %v\n", e.Err)
	case EventURLStarted:
		fmt.Fprintf(r.status, "⚙️  Fetching %s\n", e.Name)
	case EventURLAdded:
		fmt.Fprintf(r.status, "✓ Added %q (%s chars)\n", e.Source.Label, formatCount(charCount(e.Source)))
	case EventURLFailed:
		fmt.Fprintf(r.status, "✗ %s: %v\n", e.Name, e.Err)
	case EventRemoved:
		fmt.Fprintf(r.status, "✓ Removed %s\n", e.Name)
	case EventVerifying:
		fmt.Fprintf(r.status, "⚙️  Asking judge (%s)...\n", e.Name)
	}
}

// RenderSources lists sources with their combined index
func (r *Renderer) RenderSources(sources []model.Source) {
	if len(sources) == 0 {
		fmt.Fprintln(r.out, "No sources yet. Add files or URLs first.")
		return
	}

	total := 0
	for i, src := range sources {
		chars := charCount(&src)
		total += chars

		switch src.Origin {
		case model.OriginURL:
			fmt.Fprintf(r.out, "[%d] 🌐 %s\n     %s · %s chars\n", i, src.Label, src.URL, formatCount(chars))
		default:
			fmt.Fprintf(r.out, "[%d] 📄 %s\n     %s · %s · %s chars\n", i, src.Label, src.Kind, formatSize(src.SizeBytes), formatCount(chars))
		}
	}
	fmt.Fprintf(r.out, "\n%d source(s), %s chars total\n", len(sources), formatCount(total))
}

// RenderVerdict prints the category banner followed by the judge's full reply
func (r *Renderer) RenderVerdict(v *model.Verdict) {
	banner := fmt.Sprintf("%s %s", verdictIcon(v.Category), strings.ToUpper(string(v.Category)))
	fmt.Fprintln(r.out, banner)
	fmt.Fprintln(r.out, strings.Repeat("─", len([]rune(banner))))
	fmt.Fprintf(r.out, "Claim: %s\n\n", v.Claim)
	fmt.Fprintln(r.out, strings.TrimSpace(v.Text))

	if r.verbose {
		fmt.Fprintf(r.out, "\nsources: %d · model: %s · tokens: %d\n", v.SourceCount, v.Model, v.TokensUsed)
	}
	if v.Truncated {
		fmt.Fprintln(r.out, "\nNote: evidence was truncated to fit the judge's character limit.")
	}
}

// RenderJSON writes v as indented JSON
func (r *Renderer) RenderJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func verdictIcon(c model.Category) string {
	switch c {
	case model.CategorySupported:
		return "✅"
	case model.CategoryContradicted:
		return "❌"
	case model.CategoryPartiallySupported:
		return "⚠️"
	default:
		return "❔"
	}
}

func charCount(src *model.Source) int {
	if src == nil {
		return 0
	}
	return len([]rune(src.Content))
}

// formatCount renders n with thousands separators
func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return s
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
