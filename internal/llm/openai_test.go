package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimcheck/internal/model"
)

func TestOpenAIJudge_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "gpt-4o-mini", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "taxonomy", req.Messages[0].Content)
			assert.Equal(t, "user", req.Messages[1].Role)
			assert.Equal(t, "CLAIM: x\n\nSOURCE TEXTS:\ny", req.Messages[1].Content)
		}
		assert.Equal(t, float32(0.3), req.Temperature)
		assert.Equal(t, 1000, req.MaxTokens)

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "Supported. The source says so."}},
			},
			Usage: openai.Usage{TotalTokens: 42},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	judge, err := NewOpenAIJudge(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o-mini", Timeout: 5 * time.Second})
	require.NoError(t, err)

	resp, err := judge.Judge(context.Background(), JudgeRequest{
		System:      "taxonomy",
		User:        "CLAIM: x\n\nSOURCE TEXTS:\ny",
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	require.NoError(t, err)
	assert.Equal(t, "Supported. The source says so.", resp.Text)
	assert.Equal(t, 42, resp.TokensUsed)
}

func TestOpenAIJudge_ErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	judge, err := NewOpenAIJudge(Config{APIKey: "bad-key", BaseURL: server.URL})
	require.NoError(t, err)
	_, err = judge.Judge(context.Background(), JudgeRequest{User: "u"})

	require.ErrorIs(t, err, model.ErrJudgeRequestFailed)
	var judgeErr *model.JudgeError
	require.ErrorAs(t, err, &judgeErr)
	assert.Equal(t, "Incorrect API key provided", judgeErr.Message)
	assert.Equal(t, http.StatusUnauthorized, judgeErr.StatusCode)
}

func TestOpenAIJudge_ErrorWithoutMessage(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	judge, err := NewOpenAIJudge(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)
	_, err = judge.Judge(context.Background(), JudgeRequest{User: "u"})

	var judgeErr *model.JudgeError
	require.ErrorAs(t, err, &judgeErr)
	assert.Equal(t, http.StatusBadGateway, judgeErr.StatusCode)
	assert.EqualError(t, err, "judge request failed: status 502")
	assert.Equal(t, 1, calls, "expected exactly one request (no retry)")
}

func TestOpenAIJudge_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	}))
	defer server.Close()

	judge, err := NewOpenAIJudge(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)
	_, err = judge.Judge(context.Background(), JudgeRequest{User: "u"})
	assert.ErrorIs(t, err, model.ErrJudgeRequestFailed)
}

func TestNewOpenAIJudge_RequiresKey(t *testing.T) {
	_, err := NewOpenAIJudge(Config{})
	assert.Error(t, err)
}
