package selection

import (
	"sort"

	"github.com/jonathan/squad-builder/internal/types"
)

// Fallback picks the n highest-rated shortlist entries. Ties keep shortlist order.
func Fallback(shortlist []types.Player, n int) []types.Player {
	sorted := make([]types.Player, len(shortlist))
	copy(sorted, shortlist)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Overall > sorted[j].Overall
	})
	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
