package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/squad-builder/internal/types"
)

func squadOf(gk, def, mid, fwd int, valueM float64) []types.Player {
	var out []types.Player
	for cat, n := range map[types.Category]int{types.CategoryGK: gk, types.CategoryDEF: def, types.CategoryMID: mid, types.CategoryFWD: fwd} {
		for i := 0; i < n; i++ {
			out = append(out, types.Player{ShortName: fmt.Sprintf("%s%02d", cat, i+1), Category: cat, ValueEUR: valueM * 1_000_000})
		}
	}
	return out
}

func TestValidate_CategoryBounds(t *testing.T) {
	c := defaultConstraints()

	tests := []struct {
		name  string
		squad []types.Player
		want  []types.Violation
	}{
		{"exact default composition", squadOf(3, 8, 7, 5, 1), nil},
		{"extra outfield within ceiling", squadOf(3, 9, 6, 5, 1), []types.Violation{
			{Type: types.ViolationCategoryMin, Category: types.CategoryMID, Got: 6, Limit: 7},
		}},
		{"four keepers", squadOf(4, 8, 7, 4, 1), []types.Violation{
			{Type: types.ViolationCategoryMax, Category: types.CategoryGK, Got: 4, Limit: 3},
			{Type: types.ViolationCategoryMin, Category: types.CategoryFWD, Got: 4, Limit: 5},
		}},
		{"over the ceiling", squadOf(3, 9, 7, 5, 1), []types.Violation{
			{Type: types.ViolationSquadSize, Got: 24, Limit: 23},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.squad, TotalCost(tt.squad, 0), c)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_DuplicatePlayers(t *testing.T) {
	squad := squadOf(3, 8, 7, 5, 1)
	keeper := squad[0]
	for _, p := range squad {
		if p.Category == types.CategoryGK {
			keeper = p
			break
		}
	}
	restated := types.Player{ShortName: keeper.ShortName, Category: types.CategoryGK, Overall: 95}.WithSource(keeper)
	withDuplicate := append(squad, restated)

	got := Validate(withDuplicate, TotalCost(withDuplicate, 0), defaultConstraints())
	require.NotEmpty(t, got)
	assert.Equal(t, types.ViolationDuplicate, got[0].Type)
	assert.Equal(t, 2.0, got[0].Got)
	assert.Contains(t, got[0].String(), keeper.ShortName+" is selected 2 times")

	require.Len(t, got, 2)
	assert.Equal(t, types.ViolationSquadSize, got[1].Type, "the duplicate counts once toward the keeper bounds")
}

func TestValidate_Budget(t *testing.T) {
	c, err := types.NewConstraints(types.DefaultCountLimits(), 0, 200, true)
	require.NoError(t, err)

	within := squadOf(3, 8, 7, 5, 8)
	assert.Empty(t, Validate(within, TotalCost(within, 0), c))

	over := squadOf(3, 8, 7, 5, 9)
	got := Validate(over, TotalCost(over, 0), c)
	require.Len(t, got, 1)
	assert.Equal(t, types.ViolationBudget, got[0].Type)
	assert.InDelta(t, 207, got[0].Got, 0.001)
	assert.InDelta(t, 200, got[0].Limit, 0.001)

	noBudget := defaultConstraints()
	assert.Empty(t, Validate(over, TotalCost(over, 0), noBudget))
}

func TestTotalCost(t *testing.T) {
	priced := []types.Player{{ValueEUR: 1_500_000}, {ValueEUR: 2_500_000}, {}}
	assert.InDelta(t, 4.0, TotalCost(priced, 99), 0.0001)

	unpriced := []types.Player{{ShortName: "x"}, {ShortName: "y"}}
	assert.InDelta(t, 99.0, TotalCost(unpriced, 99), 0.0001)
}
