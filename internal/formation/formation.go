// Package formation resolves tactical formations and places selected players into their slots.
package formation

import (
	"sort"

	"github.com/jonathan/squad-builder/internal/types"
)

// DefaultName is used when a caller names an unknown formation.
const DefaultName = "4-3-3"

// Slot is one fixed position in a formation. X and Y are pitch coordinates in percent.
type Slot struct {
	Role string
	X    int
	Y    int
}

// Formation is an ordered set of slots. Slot order is significant for assignment.
type Formation struct {
	Name  string
	Slots []Slot
}

var catalog = map[string]Formation{
	"4-3-3": {Name: "4-3-3", Slots: []Slot{
		{"GK", 50, 90}, {"LB", 20, 70}, {"CB", 38, 75}, {"CB", 62, 75}, {"RB", 80, 70},
		{"CDM", 50, 55}, {"CM", 32, 45}, {"CM", 68, 45},
		{"LW", 20, 20}, {"ST", 50, 15}, {"RW", 80, 20},
	}},
	"4-4-2": {Name: "4-4-2", Slots: []Slot{
		{"GK", 50, 90}, {"LB", 20, 70}, {"CB", 38, 75}, {"CB", 62, 75}, {"RB", 80, 70},
		{"LM", 20, 45}, {"CM", 40, 50}, {"CM", 60, 50}, {"RM", 80, 45},
		{"ST", 40, 18}, {"ST", 60, 18},
	}},
	"3-5-2": {Name: "3-5-2", Slots: []Slot{
		{"GK", 50, 90}, {"CB", 28, 72}, {"CB", 50, 75}, {"CB", 72, 72},
		{"LM", 15, 50}, {"CDM", 35, 55}, {"CDM", 65, 55}, {"RM", 85, 50}, {"CAM", 50, 35},
		{"ST", 40, 15}, {"ST", 60, 15},
	}},
	"4-2-3-1": {Name: "4-2-3-1", Slots: []Slot{
		{"GK", 50, 90}, {"LB", 20, 70}, {"CB", 38, 75}, {"CB", 62, 75}, {"RB", 80, 70},
		{"CDM", 40, 55}, {"CDM", 60, 55},
		{"LM", 22, 35}, {"CAM", 50, 38}, {"RM", 78, 35},
		{"ST", 50, 15},
	}},
	"3-4-3": {Name: "3-4-3", Slots: []Slot{
		{"GK", 50, 90}, {"CB", 28, 72}, {"CB", 50, 75}, {"CB", 72, 72},
		{"LM", 20, 50}, {"CM", 40, 52}, {"CM", 60, 52}, {"RM", 80, 50},
		{"LW", 25, 20}, {"ST", 50, 15}, {"RW", 75, 20},
	}},
}

// compatible maps a slot role to the specific roles allowed to fill it.
// Lateral roles never cross sides.
var compatible = map[string][]string{
	"GK":  {"GK"},
	"CB":  {"CB"},
	"LB":  {"LB", "LWB"},
	"RB":  {"RB", "RWB"},
	"CDM": {"CDM", "CM"},
	"CM":  {"CM", "CDM", "CAM"},
	"CAM": {"CAM", "CF"},
	"LM":  {"LM", "LW"},
	"RM":  {"RM", "RW"},
	"LW":  {"LW", "LF"},
	"RW":  {"RW", "RF"},
	"ST":  {"ST", "CF"},
}

var compatibleSets = func() map[string]map[string]bool {
	sets := make(map[string]map[string]bool, len(compatible))
	for role, roles := range compatible {
		set := make(map[string]bool, len(roles))
		for _, r := range roles {
			set[r] = true
		}
		sets[role] = set
	}
	return sets
}()

var slotCategories = map[string]types.Category{
	"GK":  types.CategoryGK,
	"CB":  types.CategoryDEF,
	"LB":  types.CategoryDEF,
	"RB":  types.CategoryDEF,
	"CDM": types.CategoryMID,
	"CM":  types.CategoryMID,
	"CAM": types.CategoryMID,
	"LM":  types.CategoryMID,
	"RM":  types.CategoryMID,
	"LW":  types.CategoryFWD,
	"RW":  types.CategoryFWD,
	"ST":  types.CategoryFWD,
}

// Lookup resolves a formation by name, falling back to the default.
// The returned bool reports whether the name was known.
func Lookup(name string) (Formation, bool) {
	if f, ok := catalog[name]; ok {
		return f, true
	}
	return catalog[DefaultName], false
}

// Names lists the known formations in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnown reports whether name is in the catalog.
func IsKnown(name string) bool {
	_, ok := catalog[name]
	return ok
}

// Compatible returns the set of specific roles that may fill a slot role.
// Roles outside the table accept only themselves.
func Compatible(role string) map[string]bool {
	if set, ok := compatibleSets[role]; ok {
		return set
	}
	return map[string]bool{role: true}
}

// CategoryOf returns the coarse bucket of a slot role, or "" when unknown.
func CategoryOf(role string) types.Category {
	return slotCategories[role]
}

// Accepts reports whether a player can fill a slot role, either by specific
// role compatibility or by matching the slot's category.
func Accepts(role string, p types.Player) bool {
	if p.PlaysAny(Compatible(role)) {
		return true
	}
	cat := CategoryOf(role)
	return cat != "" && p.Category == cat
}
