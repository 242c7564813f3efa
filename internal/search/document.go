package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/squad-builder/internal/types"
)

// Document renders the text embedded for a player.
func Document(p types.Player) string {
	s := p.Stats()
	roles := strings.Join(p.Roles, ", ")
	if roles == "" {
		roles = string(p.Category)
	}
	return fmt.Sprintf("%s is a %d-year-old %s (%s) from %s playing for %s. Overall: %d, Pace: %d, Shooting: %d, Passing: %d, Dribbling: %d, Defending: %d, Physical: %d, Value: €%sM, Wage: €%d.",
		p.DisplayName(), p.Age, p.Category, roles, p.Nationality, p.Club,
		p.Overall, s.Pace, s.Shooting, s.Passing, s.Dribbling, s.Defending, s.Physical,
		strconv.FormatFloat(p.Price(), 'f', -1, 64), int64(p.WageEUR))
}
