package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
)

type stubJudge struct {
	reply string
	calls int
}

func (j *stubJudge) Name() string { return "stub" }

func (j *stubJudge) Judge(context.Context, llm.JudgeRequest) (*llm.JudgeResponse, error) {
	j.calls++
	return &llm.JudgeResponse{Text: j.reply, Model: "stub-model"}, nil
}

func newTestREPL(t *testing.T, judge llm.Judge, claim string) (*repl, *bytes.Buffer) {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false

	out := &bytes.Buffer{}
	renderer := pipeline.NewRenderer(out, out, false)
	session := pipeline.NewSession(*cfg,
		pipeline.WithJudge(judge),
		pipeline.WithObserver(renderer.Observe),
		pipeline.WithPendingClaim(claim),
	)
	return &repl{session: session, renderer: renderer, out: out, claim: session.PendingClaim()}, out
}

func TestREPL_AddListRemoveVerify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sky.txt")
	require.NoError(t, os.WriteFile(path, []byte("The sky is blue."), 0o644))

	judge := &stubJudge{reply: "Supported. The source states the sky is blue."}
	r, out := newTestREPL(t, judge, "The sky is blue")

	input := strings.Join([]string{
		"add " + path,
		"list",
		"verify",
		"remove 0",
		"verify",
		"quit",
	}, "\n")

	require.NoError(t, r.run(context.Background(), strings.NewReader(input)))

	text := out.String()
	assert.Contains(t, text, "Claim: The sky is blue")
	assert.Contains(t, text, "✓ Added sky.txt")
	assert.Contains(t, text, "[0] 📄 sky.txt")
	assert.Contains(t, text, "SUPPORTED")
	assert.Contains(t, text, "✓ Removed sky.txt")
	assert.Contains(t, text, model.ErrNoSources.Error())
	assert.Equal(t, 1, judge.calls, "verify without sources must not reach the judge")
}

func TestREPL_ClaimCommands(t *testing.T) {
	judge := &stubJudge{reply: "Insufficient Evidence"}
	r, out := newTestREPL(t, judge, "")

	input := "claim\nverify\nclaim Water boils at 100 C\nclaim\nremove x\nremove 3\nbogus\n"
	require.NoError(t, r.run(context.Background(), strings.NewReader(input)))

	text := out.String()
	assert.Contains(t, text, "No claim set.")
	assert.Contains(t, text, model.ErrEmptyClaim.Error())
	assert.Contains(t, text, "✓ Claim set")
	assert.Contains(t, text, "Claim: Water boils at 100 C")
	assert.Contains(t, text, "usage: remove <index>")
	assert.Contains(t, text, "No source at index 3.")
	assert.Contains(t, text, `Unknown command "bogus"`)
	assert.Zero(t, judge.calls)
}

func TestResolveCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434/")

	tests := []struct {
		provider    string
		wantKey     string
		wantBaseURL string
	}{
		{"openai", "sk-openai", ""},
		{"", "sk-openai", ""},
		{"anthropic", "sk-ant", ""},
		{"claude", "sk-ant", ""},
		{"ollama", "", "http://gpu-box:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := model.DefaultConfig()
			cfg.Judge.Provider = tt.provider
			resolveCredentials(cfg)
			assert.Equal(t, tt.wantKey, cfg.Judge.APIKey)
			assert.Equal(t, tt.wantBaseURL, cfg.Judge.BaseURL)
		})
	}
}

func TestResolveCredentials_KeepsConfiguredKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg := model.DefaultConfig()
	cfg.Judge.APIKey = "sk-config"
	resolveCredentials(cfg)
	assert.Equal(t, "sk-config", cfg.Judge.APIKey)
}

func TestOllamaAPIBase(t *testing.T) {
	assert.Equal(t, "http://localhost:11434/v1", ollamaAPIBase("http://localhost:11434"))
	assert.Equal(t, "http://localhost:11434/v1", ollamaAPIBase("http://localhost:11434/v1/"))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskKey(""))
	assert.Equal(t, "****", maskKey("short"))
	assert.Equal(t, "****cdef", maskKey("sk-1234567890abcdef"))
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".claimcheck")

	path, err := writeDefaultConfig(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "api_key")

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, model.DefaultConfig().Judge.Model, cfg.Judge.Model)
	assert.Equal(t, model.DefaultConfig().Extract.MaxFileBytes, cfg.Extract.MaxFileBytes)

	_, err = writeDefaultConfig(dir)
	assert.Error(t, err, "existing config must not be overwritten")
}

func TestSplitPaths(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want []string
	}{
		{"single", "a.txt", []string{"a.txt"}},
		{"several", "a.txt  b.pdf\tc.png", []string{"a.txt", "b.pdf", "c.png"}},
		{"double quoted with spaces", `"my notes.txt" b.pdf`, []string{"my notes.txt", "b.pdf"}},
		{"single quoted with spaces", `a.txt 'annual report.pdf'`, []string{"a.txt", "annual report.pdf"}},
		{"quote inside a token", `dir/"two words".txt`, []string{"dir/two words.txt"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitPaths(tt.arg))
		})
	}
}

func TestSplitPaths_ExistingFileWithSpaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky facts.txt")
	require.NoError(t, os.WriteFile(path, []byte("The sky is blue."), 0o644))

	assert.Equal(t, []string{path}, splitPaths(path))
}

func TestREPL_AddPathWithSpaces(t *testing.T) {
	dir := t.TempDir()
	quoted := filepath.Join(dir, "sky facts.txt")
	bare := filepath.Join(dir, "more sky facts.txt")
	require.NoError(t, os.WriteFile(quoted, []byte("The sky is blue."), 0o644))
	require.NoError(t, os.WriteFile(bare, []byte("Skies look blue by day."), 0o644))

	r, out := newTestREPL(t, &stubJudge{reply: "Supported"}, "The sky is blue")

	input := strings.Join([]string{
		`add "` + quoted + `"`,
		"add " + bare,
		"quit",
	}, "\n")
	require.NoError(t, r.run(context.Background(), strings.NewReader(input)))

	text := out.String()
	assert.Contains(t, text, "✓ Added sky facts.txt")
	assert.Contains(t, text, "✓ Added more sky facts.txt")

	files, _ := r.session.Counts()
	assert.Equal(t, 2, files)
}
