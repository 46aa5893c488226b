package verify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
)

type fakeJudge struct {
	reply    string
	err      error
	requests []llm.JudgeRequest
}

func (f *fakeJudge) Name() string { return "fake" }

func (f *fakeJudge) Judge(_ context.Context, req llm.JudgeRequest) (*llm.JudgeResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.JudgeResponse{Text: f.reply, Model: "fake-model", TokensUsed: 7}, nil
}

func textSource(content string) model.Source {
	return model.Source{Origin: model.OriginFile, Label: "a.txt", Content: content}
}

func newTestOrchestrator(j llm.Judge) *Orchestrator {
	return NewOrchestrator(j, model.DefaultConfig().Judge)
}

func TestVerify_EmptyClaim(t *testing.T) {
	judge := &fakeJudge{reply: "Supported"}
	o := newTestOrchestrator(judge)

	for _, claim := range []string{"", "   ", "\n\t"} {
		_, err := o.Verify(context.Background(), claim, []model.Source{textSource("x")})
		assert.ErrorIs(t, err, model.ErrEmptyClaim)
	}
	assert.Empty(t, judge.requests, "judge must not be called")
}

func TestVerify_NoSources(t *testing.T) {
	judge := &fakeJudge{reply: "Supported"}
	o := newTestOrchestrator(judge)

	_, err := o.Verify(context.Background(), "claim", nil)
	assert.ErrorIs(t, err, model.ErrNoSources)
	assert.Empty(t, judge.requests)
}

func TestVerify_EmptyClaimCheckedFirst(t *testing.T) {
	judge := &fakeJudge{}
	_, err := newTestOrchestrator(judge).Verify(context.Background(), " ", nil)
	assert.ErrorIs(t, err, model.ErrEmptyClaim)
}

func TestVerify_SkyIsBlue(t *testing.T) {
	judge := &fakeJudge{reply: "Supported. Source 1 states that the sky is blue."}
	o := newTestOrchestrator(judge)

	verdict, err := o.Verify(context.Background(), "The sky is blue", []model.Source{textSource("The sky is blue.")})
	require.NoError(t, err)
	require.Len(t, judge.requests, 1)

	req := judge.requests[0]
	assert.Equal(t, "CLAIM: The sky is blue\n\nSOURCE TEXTS:\nThe sky is blue.", req.User)
	assert.Equal(t, SystemPrompt, req.System)
	assert.Equal(t, float32(0.3), req.Temperature)
	assert.Equal(t, 1000, req.MaxTokens)

	assert.Equal(t, model.CategorySupported, verdict.Category)
	assert.Equal(t, judge.reply, verdict.Text)
	assert.Equal(t, "fake-model", verdict.Model)
	assert.Equal(t, 1, verdict.SourceCount)
	assert.False(t, verdict.Truncated)
}

func TestVerify_EvidenceTruncated(t *testing.T) {
	judge := &fakeJudge{reply: "Insufficient Evidence"}
	o := newTestOrchestrator(judge)

	big := strings.Repeat("é", 60_000)
	verdict, err := o.Verify(context.Background(), "c", []model.Source{textSource(big), textSource(big)})
	require.NoError(t, err)

	evidence := strings.TrimPrefix(judge.requests[0].User, "CLAIM: c\n\nSOURCE TEXTS:\n")
	assert.Equal(t, 100_000, len([]rune(evidence)))
	assert.True(t, verdict.Truncated)
	assert.Equal(t, model.CategoryInsufficientEvidence, verdict.Category)
}

func TestVerify_JudgeErrorSurfacedVerbatim(t *testing.T) {
	judgeErr := &model.JudgeError{StatusCode: 401, Message: "Incorrect API key provided"}
	judge := &fakeJudge{err: judgeErr}

	_, err := newTestOrchestrator(judge).Verify(context.Background(), "c", []model.Source{textSource("x")})
	assert.ErrorIs(t, err, model.ErrJudgeRequestFailed)
	assert.Equal(t, "judge request failed: Incorrect API key provided", err.Error())
	assert.Len(t, judge.requests, 1, "no retry")
}

func TestVerify_NilJudge(t *testing.T) {
	_, err := NewOrchestrator(nil, model.DefaultConfig().Judge).Verify(context.Background(), "c", []model.Source{textSource("x")})
	assert.True(t, errors.Is(err, model.ErrJudgeRequestFailed))
}

func TestBuildEvidence(t *testing.T) {
	sources := []model.Source{textSource("one"), textSource("two"), textSource("three")}

	evidence, truncated := BuildEvidence(sources, 100_000)
	assert.Equal(t, "one\n\n---\n\ntwo\n\n---\n\nthree", evidence)
	assert.False(t, truncated)

	evidence, truncated = BuildEvidence(sources, 5)
	assert.Equal(t, "one\n\n", evidence)
	assert.True(t, truncated)

	evidence, _ = BuildEvidence(nil, 10)
	assert.Equal(t, "", evidence)
}

func TestBuildEvidence_ExactLimit(t *testing.T) {
	exact := strings.Repeat("a", 100_000)

	evidence, truncated := BuildEvidence([]model.Source{textSource(exact)}, 100_000)
	assert.Len(t, evidence, 100_000)
	assert.False(t, truncated)

	evidence, truncated = BuildEvidence([]model.Source{textSource(exact + "b")}, 100_000)
	assert.Equal(t, exact, evidence)
	assert.True(t, truncated)
}
