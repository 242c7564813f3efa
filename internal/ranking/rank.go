// Package ranking provides functionality to rank unselected candidates for formation slots.
package ranking

import (
	"sort"
	"strings"

	"github.com/jonathan/squad-builder/internal/formation"
	"github.com/jonathan/squad-builder/internal/types"
)

// MaxAlternatives caps the per-slot alternative list.
const MaxAlternatives = 5

// Alternatives returns up to MaxAlternatives shortlist players that could fill the slot,
// excluding anyone occupying a pitch slot, sorted by overall rating descending.
func Alternatives(slot types.SlotResult, shortlist []types.Player, occupied map[string]bool) []types.Player {
	candidates := make([]types.Player, 0, len(shortlist))
	for _, p := range shortlist {
		if occupied[p.ID()] {
			continue
		}
		if formation.Accepts(slot.Role, p) {
			candidates = append(candidates, p)
		}
	}
	byOverall(candidates)
	return head(candidates, MaxAlternatives)
}

// AttachAlternatives fills the alternatives of every pitch slot in place.
func AttachAlternatives(pitch []types.SlotResult, shortlist []types.Player) {
	occupied := formation.Occupied(pitch)
	for i := range pitch {
		pitch[i].Alternatives = Alternatives(pitch[i], shortlist, occupied)
	}
}

// SearchCatalog filters players by slot role and free text (name, club or nation),
// returning the best-rated matches first.
func SearchCatalog(players []types.Player, role, text string, limit int) []types.Player {
	role = strings.ToUpper(strings.TrimSpace(role))
	text = strings.ToLower(strings.TrimSpace(text))

	var matches []types.Player
	for _, p := range players {
		if role != "" && !formation.Accepts(role, p) {
			continue
		}
		if text != "" && !matchesText(p, text) {
			continue
		}
		matches = append(matches, p)
	}
	byOverall(matches)
	return head(matches, limit)
}

func matchesText(p types.Player, text string) bool {
	for _, field := range []string{p.ShortName, p.LongName, p.Club, p.Nationality} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

// byOverall sorts by rating descending, keeping the incoming order among equals.
func byOverall(players []types.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Overall > players[j].Overall
	})
}

func head(players []types.Player, n int) []types.Player {
	if n >= 0 && len(players) > n {
		return players[:n]
	}
	return players
}
