package selection

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/squad-builder/internal/types"
)

// DefaultMaxAttempts is the number of oracle calls per selection: one initial
// attempt plus one corrective retry.
const DefaultMaxAttempts = 2

// Observer is notified of oracle activity. metrics.Manager satisfies it.
type Observer interface {
	OracleAttempt()
	ValidationFailed(violations int)
}

type nopObserver struct{}

func (nopObserver) OracleAttempt()       {}
func (nopObserver) ValidationFailed(int) {}

// Adapter drives the oracle through parse, enrich and validate, retrying with
// corrective feedback when the answer breaks the constraints.
type Adapter struct {
	oracle      Oracle
	maxAttempts int
	observer    Observer
	logger      *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithMaxAttempts overrides the attempt budget. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(a *Adapter) {
		if n >= 1 {
			a.maxAttempts = n
		}
	}
}

// WithObserver reports attempts and validation failures.
func WithObserver(o Observer) Option {
	return func(a *Adapter) {
		if o != nil {
			a.observer = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter creates an adapter around an oracle.
func NewAdapter(oracle Oracle, opts ...Option) *Adapter {
	a := &Adapter{
		oracle:      oracle,
		maxAttempts: DefaultMaxAttempts,
		observer:    nopObserver{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Select asks the oracle for a squad drawn from the shortlist. It returns an
// error only when the oracle itself cannot be reached; an answer that still
// breaks the constraints after the last attempt is returned with its
// violations for the caller to handle.
func (a *Adapter) Select(ctx context.Context, shortlist []types.Player, c types.Constraints, preferences string) (types.Selection, error) {
	in := PromptInput{Candidates: shortlist, Constraints: c, Preferences: preferences}

	var (
		last  types.Selection
		prior []types.Violation
	)
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		prompt, err := BuildPrompt(in, attempt, prior)
		if err != nil {
			return types.Selection{}, err
		}

		a.observer.OracleAttempt()
		start := time.Now()
		raw, err := a.oracle.Invoke(ctx, prompt)
		if err != nil {
			return types.Selection{}, &types.ChannelError{Collaborator: "oracle", Op: "invoke", Cause: err}
		}
		a.logger.Debug("oracle answered",
			zap.Int("attempt", attempt),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("bytes", len(raw)))

		last = evaluate(raw, shortlist, c)
		last.Attempts = attempt
		if last.Valid() {
			return last, nil
		}

		a.observer.ValidationFailed(len(last.Violations))
		a.logger.Info("oracle selection rejected",
			zap.Int("attempt", attempt),
			zap.Int("selected", len(last.Selected)),
			zap.Strings("violations", violationStrings(last.Violations)))
		prior = last.Violations
	}
	return last, nil
}

// evaluate turns one raw answer into a validated selection.
func evaluate(raw string, shortlist []types.Player, c types.Constraints) types.Selection {
	resp, err := Parse(raw)
	if err != nil {
		return types.Selection{Violations: []types.Violation{unparsableViolation(err)}}
	}
	selected := Enrich(resp.Selected, shortlist)
	total := TotalCost(selected, resp.DeclaredCost)
	return types.Selection{
		Selected:   selected,
		Excluded:   resp.Excluded,
		TotalCost:  total,
		Notes:      resp.Notes,
		Violations: Validate(selected, total, c),
	}
}

func violationStrings(vs []types.Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}
