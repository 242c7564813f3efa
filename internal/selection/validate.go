package selection

import (
	"fmt"

	"github.com/jonathan/squad-builder/internal/types"
)

// TotalCost sums the selected costs in EUR millions. When no selected player
// carries a cost the declared total is used instead.
func TotalCost(selected []types.Player, declared float64) float64 {
	var sum float64
	priced := false
	for _, p := range selected {
		if p.ValueEUR > 0 {
			priced = true
			sum += p.Cost()
		}
	}
	if !priced {
		return declared
	}
	return sum
}

// Validate checks a selection against the hard constraints and returns every
// violation found. A player listed more than once counts once toward the
// category bounds and is reported as a duplicate.
func Validate(selected []types.Player, totalCost float64, c types.Constraints) []types.Violation {
	counts := make(map[types.Category]int, len(types.Categories))
	seen := make(map[string]int, len(selected))
	var order []types.Player
	for _, p := range selected {
		id := p.ID()
		seen[id]++
		if seen[id] == 1 {
			counts[p.Category]++
			order = append(order, p)
		}
	}

	var violations []types.Violation
	for _, p := range order {
		if n := seen[p.ID()]; n > 1 {
			violations = append(violations, types.Violation{
				Type:     types.ViolationDuplicate,
				Category: p.Category,
				Got:      float64(n),
				Limit:    1,
				Details:  fmt.Sprintf("%s is selected %d times, list each player once", p.DisplayName(), n),
			})
		}
	}
	for _, cat := range types.Categories {
		b := c.Bounds(cat)
		got := counts[cat]
		switch {
		case got < b.Min:
			violations = append(violations, types.Violation{
				Type:     types.ViolationCategoryMin,
				Category: cat,
				Got:      float64(got),
				Limit:    float64(b.Min),
			})
		case got > b.Max:
			violations = append(violations, types.Violation{
				Type:     types.ViolationCategoryMax,
				Category: cat,
				Got:      float64(got),
				Limit:    float64(b.Max),
			})
		}
	}

	if len(selected) > c.MaxPlayers {
		violations = append(violations, types.Violation{
			Type:  types.ViolationSquadSize,
			Got:   float64(len(selected)),
			Limit: float64(c.MaxPlayers),
		})
	}

	if c.BudgetEnabled && totalCost > c.Budget {
		violations = append(violations, types.Violation{
			Type:  types.ViolationBudget,
			Got:   totalCost,
			Limit: c.Budget,
		})
	}
	return violations
}

func unparsableViolation(err error) types.Violation {
	return types.Violation{
		Type:    types.ViolationUnparsable,
		Details: fmt.Sprintf("response could not be parsed (%v); use the exact section markers", err),
	}
}
