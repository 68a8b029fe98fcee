// Package gateway turns raw model completions into domain results.
package gateway

import (
	"context"
	"fmt"

	"github.com/vbonduro/foodiq/internal/domain"
	"github.com/vbonduro/foodiq/internal/llm"
)

// ModelGateway runs analysis and follow-up prompts. It makes exactly one call
// per invocation; retrying is the caller's concern.
type ModelGateway struct {
	completer llm.Completer
}

func NewModelGateway(c llm.Completer) *ModelGateway {
	return &ModelGateway{completer: c}
}

// RunAnalysis fails with *llm.UpstreamError when the call fails and with
// *llm.ParseError when the reply is not a valid AnalysisResult.
func (g *ModelGateway) RunAnalysis(ctx context.Context, prompt string) (*domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	if err := g.run(ctx, prompt, &result); err != nil {
		return nil, err
	}
	if !result.Verdict.Valid() {
		return nil, &llm.ParseError{Err: fmt.Errorf("invalid verdict %q", result.Verdict)}
	}
	result.Normalize()
	return &result, nil
}

// RunFollowUp fails like RunAnalysis; an empty answer is a parse failure.
func (g *ModelGateway) RunFollowUp(ctx context.Context, prompt string) (*domain.FollowUpResult, error) {
	var result domain.FollowUpResult
	if err := g.run(ctx, prompt, &result); err != nil {
		return nil, err
	}
	if result.FollowUpAnswer == "" {
		return nil, &llm.ParseError{Err: fmt.Errorf("followUpAnswer is empty")}
	}
	return &result, nil
}

func (g *ModelGateway) run(ctx context.Context, prompt string, v any) error {
	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		if llm.IsUpstream(err) {
			return err
		}
		return &llm.UpstreamError{Err: err}
	}
	return llm.DecodeJSON(raw, v)
}
