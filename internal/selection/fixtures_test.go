package selection

import (
	"fmt"
	"strings"

	"github.com/jonathan/squad-builder/internal/types"
)

var fixtureRoles = map[types.Category][]string{
	types.CategoryGK:  {"GK"},
	types.CategoryDEF: {"CB", "LB", "RB"},
	types.CategoryMID: {"CM", "CDM", "CAM"},
	types.CategoryFWD: {"ST", "LW", "RW"},
}

// scenarioShortlist builds 40 candidates: 5 GK, 15 DEF, 12 MID, 8 FWD.
func scenarioShortlist() []types.Player {
	var out []types.Player
	add := func(cat types.Category, n int) {
		roles := fixtureRoles[cat]
		for i := 0; i < n; i++ {
			out = append(out, types.Player{
				ShortName: fmt.Sprintf("%s%02d", cat, i+1),
				Category:  cat,
				Roles:     []string{roles[i%len(roles)]},
				Overall:   90 - i,
				ValueEUR:  10_000_000,
				Club:      "Club",
			})
		}
	}
	add(types.CategoryGK, 5)
	add(types.CategoryDEF, 15)
	add(types.CategoryMID, 12)
	add(types.CategoryFWD, 8)
	return out
}

// answer renders an oracle response selecting the first n of each category.
func answer(gk, def, mid, fwd int) string {
	var sb strings.Builder
	sb.WriteString("---SELECTED---\n")
	for _, c := range []struct {
		cat types.Category
		n   int
	}{{types.CategoryGK, gk}, {types.CategoryDEF, def}, {types.CategoryMID, mid}, {types.CategoryFWD, fwd}} {
		for i := 0; i < c.n; i++ {
			fmt.Fprintf(&sb, "%s%02d | %s | %d | 10 | reliable pick\n", c.cat, i+1, c.cat, 90-i)
		}
	}
	sb.WriteString("---EXCLUDED---\nGK05 | fifth choice\n")
	fmt.Fprintf(&sb, "---TOTAL_COST---\n%d\n", 10*(gk+def+mid+fwd))
	sb.WriteString("---NOTES---\nBalanced depth across the lines.\n")
	return sb.String()
}

func defaultConstraints() types.Constraints {
	c, err := types.NewConstraints(types.DefaultCountLimits(), 0, 0, false)
	if err != nil {
		panic(err)
	}
	return c
}
