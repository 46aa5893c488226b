package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// NewJudge creates the judge selected by config.Provider
func NewJudge(config Config) (Judge, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))

	switch provider {
	case "openai", "":
		config.Provider = "openai"
		return NewOpenAIJudge(config)

	case "ollama":
		if config.BaseURL == "" {
			config.BaseURL = OllamaBaseURL
		}
		return NewOpenAIJudge(config)

	case "anthropic", "claude":
		return NewAnthropicJudge(config)

	default:
		return nil, fmt.Errorf("unknown judge provider: %s (supported: openai, ollama, anthropic)", config.Provider)
	}
}

// unavailableJudge stands in when no judge could be configured, so that
// ingestion still works and verification reports why it cannot run.
type unavailableJudge struct {
	err error
}

// Unavailable returns a Judge whose every request fails with err
func Unavailable(err error) Judge {
	return unavailableJudge{err: err}
}

func (u unavailableJudge) Name() string { return "unavailable" }

func (u unavailableJudge) Judge(context.Context, JudgeRequest) (*JudgeResponse, error) {
	return nil, fmt.Errorf("%w: %w", model.ErrJudgeRequestFailed, u.err)
}
