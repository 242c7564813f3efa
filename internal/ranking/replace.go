package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/squad-builder/internal/formation"
	"github.com/jonathan/squad-builder/internal/types"
)

// standoutThreshold is the stat value above which a stat is called out in a reason.
const standoutThreshold = 85

// Replacements suggests swaps for a slot role from the shortlist, skipping the
// given squad members, best-rated first.
func Replacements(role string, shortlist []types.Player, exclude map[string]bool, limit int) []types.Replacement {
	role = strings.ToUpper(strings.TrimSpace(role))

	var candidates []types.Player
	for _, p := range shortlist {
		if exclude[p.ID()] {
			continue
		}
		if formation.Accepts(role, p) {
			candidates = append(candidates, p)
		}
	}
	byOverall(candidates)
	candidates = head(candidates, limit)

	out := make([]types.Replacement, 0, len(candidates))
	for _, p := range candidates {
		out = append(out, types.Replacement{Player: p, Reason: ReplacementReason(p, role)})
	}
	return out
}

// ReplacementReason explains a suggestion by its standout stats.
func ReplacementReason(p types.Player, role string) string {
	s := p.Stats()
	var parts []string
	if s.Pace > standoutThreshold {
		parts = append(parts, fmt.Sprintf("Elite pace (%d)", s.Pace))
	}
	if s.Defending > standoutThreshold {
		parts = append(parts, fmt.Sprintf("Strong defensive ability (%d)", s.Defending))
	}
	if s.Passing > standoutThreshold {
		parts = append(parts, fmt.Sprintf("Exceptional passing (%d)", s.Passing))
	}
	if s.Shooting > standoutThreshold {
		parts = append(parts, fmt.Sprintf("Clinical finishing (%d)", s.Shooting))
	}
	if s.Physical > standoutThreshold {
		parts = append(parts, fmt.Sprintf("Dominant physicality (%d)", s.Physical))
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("Solid %s option, rated %d", role, p.Overall))
	}
	return strings.Join(parts, ". ") + "."
}
