// Package llm talks to the judge model that rules on a claim.
package llm

import (
	"context"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Judge sends one verdict request to a chat model
type Judge interface {
	// Name returns the provider name
	Name() string

	// Judge sends a single system+user exchange and returns the raw reply.
	// Non-success responses fail with a *model.JudgeError.
	Judge(ctx context.Context, req JudgeRequest) (*JudgeResponse, error)
}

// JudgeRequest contains one verdict exchange
type JudgeRequest struct {
	// System is the fixed instruction defining the verdict taxonomy
	System string

	// User carries the claim and the flattened evidence
	User string

	// Model overrides the provider's configured model when set
	Model string

	Temperature float32
	MaxTokens   int
}

// JudgeResponse contains the judge's reply
type JudgeResponse struct {
	// Text is the first choice's message content, untrimmed of meaning
	Text string

	// Model is the model that produced the reply
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds judge provider configuration
type Config struct {
	// Provider name: "openai", "ollama", "anthropic"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey is the bearer credential. Never logged.
	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout for one request; zero disables
	Timeout time.Duration

	// HTTP supplies proxy and TLS settings
	HTTP model.HTTPConfig
}

// ConfigFromModel converts the application config into a judge config
func ConfigFromModel(cfg model.Config) Config {
	return Config{
		Provider: cfg.Judge.Provider,
		Model:    cfg.Judge.Model,
		APIKey:   cfg.Judge.APIKey,
		BaseURL:  cfg.Judge.BaseURL,
		Timeout:  cfg.Judge.Timeout,
		HTTP:     cfg.HTTP,
	}
}
