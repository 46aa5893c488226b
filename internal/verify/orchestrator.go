// Package verify turns a claim and the current sources into a verdict.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
)

// Orchestrator sends one judge request per verification. It holds no state
// between calls and never retries.
type Orchestrator struct {
	judge       llm.Judge
	model       string
	temperature float32
	maxTokens   int
	maxEvidence int
}

// NewOrchestrator creates an orchestrator using judge with the request settings in cfg
func NewOrchestrator(judge llm.Judge, cfg model.JudgeConfig) *Orchestrator {
	maxEvidence := cfg.MaxEvidence
	if maxEvidence <= 0 {
		maxEvidence = model.DefaultMaxEvidenceChars
	}

	return &Orchestrator{
		judge:       judge,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxEvidence: maxEvidence,
	}
}

// Ready reports whether claim and sources can be sent to a judge
func Ready(claim string, sources []model.Source) error {
	if strings.TrimSpace(claim) == "" {
		return model.ErrEmptyClaim
	}
	if len(sources) == 0 {
		return model.ErrNoSources
	}
	return nil
}

// Verify asks the judge whether sources support claim.
// Empty claims and empty source lists fail before any request is made.
func (o *Orchestrator) Verify(ctx context.Context, claim string, sources []model.Source) (*model.Verdict, error) {
	claim = strings.TrimSpace(claim)
	if err := Ready(claim, sources); err != nil {
		return nil, err
	}
	if o.judge == nil {
		return nil, fmt.Errorf("%w: no judge configured", model.ErrJudgeRequestFailed)
	}

	evidence, truncated := BuildEvidence(sources, o.maxEvidence)

	log.Debug().
		Str("judge", o.judge.Name()).
		Int("sources", len(sources)).
		Int("evidence_bytes", len(evidence)).
		Bool("truncated", truncated).
		Msg("requesting verdict")

	resp, err := o.judge.Judge(ctx, llm.JudgeRequest{
		System:      SystemPrompt,
		User:        UserMessage(claim, evidence),
		Model:       o.model,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	return &model.Verdict{
		Claim:       claim,
		Category:    Classify(resp.Text),
		Text:        resp.Text,
		Model:       resp.Model,
		SourceCount: len(sources),
		Truncated:   truncated,
		TokensUsed:  resp.TokensUsed,
	}, nil
}
