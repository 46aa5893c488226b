package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
)

// OllamaBaseURL is the OpenAI-compatible endpoint of a local Ollama server
const OllamaBaseURL = "http://localhost:11434/v1"

// OpenAIJudge implements Judge over the OpenAI chat completions API.
// Any OpenAI-compatible endpoint works through BaseURL.
type OpenAIJudge struct {
	client *openai.Client
	config Config
	name   string
}

// NewOpenAIJudge creates a judge for api.openai.com or a compatible endpoint
func NewOpenAIJudge(config Config) (*OpenAIJudge, error) {
	if config.APIKey == "" && config.BaseURL == "" {
		return nil, fmt.Errorf("OpenAI API key is required (set OPENAI_API_KEY)")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout:   config.Timeout,
		Transport: util.NewTransport(config.HTTP),
	}

	name := config.Provider
	if name == "" {
		name = "openai"
	}

	return &OpenAIJudge{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		name:   name,
	}, nil
}

// Name returns the provider name
func (j *OpenAIJudge) Name() string {
	return j.name
}

// Judge sends the exchange as a two-message chat completion
func (j *OpenAIJudge) Judge(ctx context.Context, req JudgeRequest) (*JudgeResponse, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = j.config.Model
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	resp, err := j.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, openAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &model.JudgeError{StatusCode: http.StatusOK, Message: "response contained no choices"}
	}

	return &JudgeResponse{
		Text:       resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// openAIError maps client errors onto *model.JudgeError, preferring the provider's message
func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &model.JudgeError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &model.JudgeError{StatusCode: reqErr.HTTPStatusCode}
	}

	return fmt.Errorf("%w: %w", model.ErrJudgeRequestFailed, err)
}
