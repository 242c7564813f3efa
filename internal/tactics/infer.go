// Package tactics infers tactical parameters from a free-text chat message.
package tactics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/squad-builder/internal/formation"
	"github.com/jonathan/squad-builder/internal/llm"
	"github.com/jonathan/squad-builder/internal/prompts"
	"github.com/jonathan/squad-builder/internal/schemas"
	"github.com/jonathan/squad-builder/internal/types"
)

// Budget limits for an inferred spending cap, in EUR millions.
const (
	MaxBudget     = 2000.0
	DefaultBudget = 200.0
)

// Defaults are used whenever inference fails.
func Defaults() types.Tactics {
	return types.Tactics{
		Formation:         formation.DefaultName,
		BuildUpStyle:      types.DefaultStyle,
		DefensiveApproach: types.DefaultStyle,
	}
}

// inferResponse is the JSON the model is asked to return.
type inferResponse struct {
	Formation         string   `json:"formation"`
	BuildUpStyle      string   `json:"buildUpStyle"`
	DefensiveApproach string   `json:"defensiveApproach"`
	BudgetEnabled     bool     `json:"budgetEnabled"`
	Budget            *float64 `json:"budget"`
}

// Inferrer turns chat messages into tactics.
type Inferrer struct {
	client llm.Client
	logger *zap.Logger
}

// NewInferrer creates an inferrer. A nil logger disables logging.
func NewInferrer(client llm.Client, logger *zap.Logger) *Inferrer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inferrer{client: client, logger: logger}
}

// Infer asks the model for tactics. It always returns usable tactics: on any
// failure the defaults come back together with the reason.
func (i *Inferrer) Infer(ctx context.Context, message string) (types.Tactics, error) {
	prompt, err := buildPrompt(message)
	if err != nil {
		return Defaults(), err
	}

	raw, err := i.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		i.logger.Warn("tactics inference failed, using defaults", zap.Error(err))
		return Defaults(), fmt.Errorf("LLM generation failed: %w", err)
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Tactics, []byte(cleaned)); err != nil {
		i.logger.Warn("tactics response rejected, using defaults", zap.Error(err))
		return Defaults(), fmt.Errorf("invalid tactics response: %w", err)
	}

	var resp inferResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return Defaults(), fmt.Errorf("failed to parse tactics response: %w", err)
	}

	t := normalize(resp)
	i.logger.Debug("tactics inferred",
		zap.String("formation", t.Formation),
		zap.String("build_up", t.BuildUpStyle),
		zap.String("defensive", t.DefensiveApproach),
		zap.Bool("budget_enabled", t.BudgetEnabled),
		zap.Float64("budget", t.Budget),
	)
	return t, nil
}

// normalize replaces out-of-range values with defaults field by field.
func normalize(resp inferResponse) types.Tactics {
	t := Defaults()
	if f := strings.TrimSpace(resp.Formation); formation.IsKnown(f) {
		t.Formation = f
	}
	if types.IsBuildUpStyle(resp.BuildUpStyle) {
		t.BuildUpStyle = resp.BuildUpStyle
	}
	if types.IsDefensiveApproach(resp.DefensiveApproach) {
		t.DefensiveApproach = resp.DefensiveApproach
	}
	if resp.BudgetEnabled {
		t.BudgetEnabled = true
		t.Budget = DefaultBudget
		if resp.Budget != nil && *resp.Budget > 0 && *resp.Budget <= MaxBudget {
			t.Budget = *resp.Budget
		}
	}
	return t
}

func buildPrompt(message string) (string, error) {
	template, err := prompts.Get("tactics.json", "infer-tactics")
	if err != nil {
		return "", fmt.Errorf("failed to load tactics prompt: %w", err)
	}
	return prompts.Format(template, map[string]string{
		"Formations":          strings.Join(formation.Names(), ", "),
		"BuildUpStyles":       strings.Join(types.BuildUpStyles, ", "),
		"DefensiveApproaches": strings.Join(types.DefensiveApproaches, ", "),
		"Message":             strings.TrimSpace(message),
	}), nil
}
