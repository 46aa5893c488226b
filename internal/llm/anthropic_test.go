package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimcheck/internal/model"
)

func TestAnthropicJudge_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req anthropicRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "taxonomy", req.System)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "CLAIM: c", req.Messages[0].Content)
		}

		resp := anthropicResponse{
			ID:      "msg_123",
			Type:    "message",
			Role:    "assistant",
			Content: []anthropicContent{{Type: "text", Text: "Contradicted: the source says otherwise."}},
			Model:   "claude-3-5-haiku-20241022",
			Usage:   anthropicUsage{InputTokens: 50, OutputTokens: 10},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	judge, err := NewAnthropicJudge(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := judge.Judge(context.Background(), JudgeRequest{System: "taxonomy", User: "CLAIM: c"})
	require.NoError(t, err)
	assert.Equal(t, "Contradicted: the source says otherwise.", resp.Text)
	assert.Equal(t, 60, resp.TokensUsed)
}

func TestAnthropicJudge_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"Rate limited"}}`))
	}))
	defer server.Close()

	judge, err := NewAnthropicJudge(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)
	_, err = judge.Judge(context.Background(), JudgeRequest{User: "u"})

	var judgeErr *model.JudgeError
	require.ErrorAs(t, err, &judgeErr)
	assert.Equal(t, "Rate limited", judgeErr.Message)
	assert.Equal(t, http.StatusTooManyRequests, judgeErr.StatusCode)
}
