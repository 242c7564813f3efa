package selection

import (
	"context"

	"github.com/jonathan/squad-builder/internal/llm"
)

// Oracle proposes a squad for a prompt. Implementations may be stochastic.
type Oracle interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, prompt string) (string, error)

// Invoke calls f.
func (f OracleFunc) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// LLMOracle answers selection prompts with a language model.
type LLMOracle struct {
	Client llm.Client
	Tier   llm.ModelTier
}

// NewLLMOracle creates an oracle that uses the advanced tier.
func NewLLMOracle(client llm.Client) *LLMOracle {
	return &LLMOracle{Client: client, Tier: llm.TierAdvanced}
}

// Invoke sends the prompt as free text.
func (o *LLMOracle) Invoke(ctx context.Context, prompt string) (string, error) {
	return o.Client.GenerateContent(ctx, prompt, o.Tier)
}
