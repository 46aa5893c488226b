package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/claimcheck/internal/model"
)

func TestRenderer_Sources(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, false)

	r.RenderSources([]model.Source{
		{Origin: model.OriginFile, Label: "notes.pdf", Kind: model.KindPDF, SizeBytes: 2048, Content: "abc"},
		{Origin: model.OriginURL, Label: "Sky Facts", URL: "https://example.com", Content: strings.Repeat("x", 1234)},
	})

	got := out.String()
	for _, want := range []string{"[0] 📄 notes.pdf", "pdf · 2.0 KB · 3 chars", "[1] 🌐 Sky Facts", "1,234 chars", "2 source(s), 1,237 chars total"} {
		assert.Contains(t, got, want)
	}
}

func TestRenderer_EmptySources(t *testing.T) {
	var out bytes.Buffer
	NewRenderer(&out, &bytes.Buffer{}, false).RenderSources(nil)
	assert.Contains(t, out.String(), "No sources yet")
}

func TestRenderer_Verdict(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, false)

	r.RenderVerdict(&model.Verdict{
		Claim:     "The sky is blue",
		Category:  model.CategoryContradicted,
		Text:      "Contradicted. Source 1 says it is green.\n",
		Truncated: true,
	})

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "❌ CONTRADICTED\n"), "expected banner first, got:\n%s", got)
	assert.Contains(t, got, "Contradicted. Source 1 says it is green.")
	assert.Contains(t, got, "evidence was truncated")
}

func TestRenderer_Observe(t *testing.T) {
	var status bytes.Buffer
	r := NewRenderer(&bytes.Buffer{}, &status, false)

	r.Observe(Event{Kind: EventFileStarted, Name: "a.txt", Remaining: 2})
	r.Observe(Event{Kind: EventFileRejected, Name: "b.zip", Err: errors.New("b.zip: unsupported file type")})
	r.Observe(Event{Kind: EventURLAdded, Source: &model.Source{Label: "Page", Content: "hello"}})

	got := status.String()
	for _, want := range []string{"Processing a.txt (2 remaining)", "✗ b.zip: unsupported file type", `✓ Added "Page" (5 chars)`} {
		assert.Contains(t, got, want)
	}
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 100000: "100,000", 1234567: "1,234,567"}
	for in, want := range tests {
		assert.Equal(t, want, formatCount(in), "formatCount(%d)", in)
	}
}
