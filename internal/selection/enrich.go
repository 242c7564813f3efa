package selection

import (
	"strings"

	"github.com/jonathan/squad-builder/internal/types"
)

// Enrich resolves each oracle partial against the shortlist by case-insensitive
// short name, then long name. A match yields the shortlist record overridden by
// every non-empty field the oracle stated. Unmatched partials pass through.
func Enrich(partials, shortlist []types.Player) []types.Player {
	byShort := make(map[string]types.Player, len(shortlist))
	byLong := make(map[string]types.Player, len(shortlist))
	for _, p := range shortlist {
		if k := nameKey(p.ShortName); k != "" {
			if _, dup := byShort[k]; !dup {
				byShort[k] = p
			}
		}
		if k := nameKey(p.LongName); k != "" {
			if _, dup := byLong[k]; !dup {
				byLong[k] = p
			}
		}
	}

	out := make([]types.Player, 0, len(partials))
	for _, partial := range partials {
		k := nameKey(partial.ShortName)
		base, ok := byShort[k]
		if !ok {
			base, ok = byLong[k]
		}
		if !ok {
			out = append(out, partial)
			continue
		}
		out = append(out, merge(base, partial))
	}
	return out
}

func nameKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// merge copies base and overlays the non-zero fields of over. Names are kept
// from base since they matched by name and only casing can differ. The copy
// keeps the identity of base whatever rating or club the oracle stated.
func merge(base, over types.Player) types.Player {
	m := base.WithSource(base)
	m.Roles = append([]string(nil), base.Roles...)

	if over.Category != "" {
		m.Category = over.Category
	}
	if len(over.Roles) > 0 {
		m.Roles = append([]string(nil), over.Roles...)
	}
	setInt(&m.Overall, over.Overall)
	setInt(&m.Potential, over.Potential)
	setInt(&m.Pace, over.Pace)
	setInt(&m.Shooting, over.Shooting)
	setInt(&m.Passing, over.Passing)
	setInt(&m.Dribbling, over.Dribbling)
	setInt(&m.Defending, over.Defending)
	setInt(&m.Physic, over.Physic)
	if over.Goalkeeping != (types.GoalkeeperStats{}) {
		m.Goalkeeping = over.Goalkeeping
	}
	setInt(&m.Age, over.Age)
	setFloat(&m.ValueEUR, over.ValueEUR)
	setFloat(&m.WageEUR, over.WageEUR)
	setInt(&m.HeightCM, over.HeightCM)
	setInt(&m.WeightKG, over.WeightKG)
	setString(&m.Foot, over.Foot)
	setString(&m.WorkRate, over.WorkRate)
	setInt(&m.Reputation, over.Reputation)
	setInt(&m.SkillMoves, over.SkillMoves)
	setInt(&m.WeakFoot, over.WeakFoot)
	setString(&m.Nationality, over.Nationality)
	setString(&m.Club, over.Club)
	setString(&m.Justification, over.Justification)
	return m
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
