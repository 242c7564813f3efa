package selection

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/squad-builder/internal/types"
)

// scriptedOracle returns canned answers in order and records every prompt.
type scriptedOracle struct {
	mu      sync.Mutex
	answers []string
	err     error
	prompts []string
}

func (o *scriptedOracle) Invoke(_ context.Context, prompt string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prompts = append(o.prompts, prompt)
	if o.err != nil {
		return "", o.err
	}
	i := len(o.prompts) - 1
	if i >= len(o.answers) {
		i = len(o.answers) - 1
	}
	return o.answers[i], nil
}

type countingObserver struct {
	attempts, failures int
}

func (c *countingObserver) OracleAttempt()       { c.attempts++ }
func (c *countingObserver) ValidationFailed(int) { c.failures++ }

func countByCategory(players []types.Player) map[types.Category]int {
	out := map[types.Category]int{}
	for _, p := range players {
		out[p.Category]++
	}
	return out
}

func TestSelect_ValidOnFirstAttempt(t *testing.T) {
	oracle := &scriptedOracle{answers: []string{answer(3, 8, 7, 5)}}
	obs := &countingObserver{}
	a := NewAdapter(oracle, WithObserver(obs))

	sel, err := a.Select(context.Background(), scenarioShortlist(), defaultConstraints(), "")
	require.NoError(t, err)

	assert.True(t, sel.Valid())
	assert.Equal(t, 1, sel.Attempts)
	assert.Len(t, oracle.prompts, 1)
	assert.Equal(t, map[types.Category]int{types.CategoryGK: 3, types.CategoryDEF: 8, types.CategoryMID: 7, types.CategoryFWD: 5}, countByCategory(sel.Selected))
	assert.InDelta(t, 230, sel.TotalCost, 0.001)
	assert.Equal(t, "Balanced depth across the lines.", sel.Notes)
	assert.Equal(t, []types.Exclusion{{Name: "GK05", Reason: "fifth choice"}}, sel.Excluded)
	assert.Equal(t, "Club", sel.Selected[0].Club, "enriched from shortlist")
	assert.Equal(t, 1, obs.attempts)
	assert.Zero(t, obs.failures)
}

func TestSelect_RetriesAfterDuplicatePlayer(t *testing.T) {
	twice := strings.Replace(answer(3, 8, 7, 5), "GK02 | GK | 89", "GK01 | GK | 91", 1)
	oracle := &scriptedOracle{answers: []string{twice, answer(3, 8, 7, 5)}}
	a := NewAdapter(oracle)

	sel, err := a.Select(context.Background(), scenarioShortlist(), defaultConstraints(), "")
	require.NoError(t, err)

	assert.True(t, sel.Valid())
	assert.Equal(t, 2, sel.Attempts)
	require.Len(t, oracle.prompts, 2)
	assert.Contains(t, oracle.prompts[1], "GK01 is selected 2 times")
}

func TestSelect_RetriesAfterFourKeepers(t *testing.T) {
	oracle := &scriptedOracle{answers: []string{answer(4, 8, 7, 4), answer(3, 8, 7, 5)}}
	obs := &countingObserver{}
	a := NewAdapter(oracle, WithObserver(obs))

	sel, err := a.Select(context.Background(), scenarioShortlist(), defaultConstraints(), "")
	require.NoError(t, err)

	assert.True(t, sel.Valid())
	assert.Equal(t, 2, sel.Attempts)
	require.Len(t, oracle.prompts, 2)
	assert.NotContains(t, oracle.prompts[0], "CORRECTION")
	assert.Contains(t, oracle.prompts[1], "GK count 4 is above the maximum 3")
	assert.Equal(t, 3, countByCategory(sel.Selected)[types.CategoryGK])
	assert.Equal(t, 2, obs.attempts)
	assert.Equal(t, 1, obs.failures)
}

func TestSelect_ExhaustedReturnsLastWithViolations(t *testing.T) {
	oracle := &scriptedOracle{answers: []string{answer(4, 8, 7, 4), answer(5, 8, 7, 3)}}
	a := NewAdapter(oracle)

	sel, err := a.Select(context.Background(), scenarioShortlist(), defaultConstraints(), "")
	require.NoError(t, err)

	assert.False(t, sel.Valid())
	assert.Equal(t, 2, sel.Attempts)
	assert.Len(t, oracle.prompts, 2)
	assert.Equal(t, 5, countByCategory(sel.Selected)[types.CategoryGK])
}

func TestSelect_UnparsableCountsAsFailedAttempt(t *testing.T) {
	oracle := &scriptedOracle{answers: []string{"sorry, cannot help"}}
	a := NewAdapter(oracle)

	sel, err := a.Select(context.Background(), scenarioShortlist(), defaultConstraints(), "")
	require.NoError(t, err)

	assert.Len(t, oracle.prompts, 2)
	assert.Empty(t, sel.Selected)
	require.Len(t, sel.Violations, 1)
	assert.Equal(t, types.ViolationUnparsable, sel.Violations[0].Type)
	assert.Contains(t, oracle.prompts[1], "exact section markers")
}

func TestSelect_BudgetRespected(t *testing.T) {
	c, err := types.NewConstraints(types.DefaultCountLimits(), 0, 150, true)
	require.NoError(t, err)
	oracle := &scriptedOracle{answers: []string{answer(3, 8, 7, 5)}}
	a := NewAdapter(oracle, WithMaxAttempts(1))

	sel, err := a.Select(context.Background(), scenarioShortlist(), c, "")
	require.NoError(t, err)

	require.Len(t, sel.Violations, 1)
	assert.Equal(t, types.ViolationBudget, sel.Violations[0].Type)
	assert.Len(t, oracle.prompts, 1)
}

func TestSelect_OracleFailureIsChannelError(t *testing.T) {
	oracle := &scriptedOracle{err: errors.New("quota exhausted")}
	a := NewAdapter(oracle)

	_, err := a.Select(context.Background(), scenarioShortlist(), defaultConstraints(), "")
	require.Error(t, err)

	var chErr *types.ChannelError
	require.ErrorAs(t, err, &chErr)
	assert.Equal(t, "oracle", chErr.Collaborator)
	assert.False(t, chErr.Timeout())
	assert.Len(t, oracle.prompts, 1, "channel failures are not retried")
}

func TestSelect_DeadlineSurfacesAsTimeout(t *testing.T) {
	a := NewAdapter(OracleFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	_, err := a.Select(ctx, scenarioShortlist(), defaultConstraints(), "")
	var chErr *types.ChannelError
	require.ErrorAs(t, err, &chErr)
	assert.True(t, chErr.Timeout())
}
