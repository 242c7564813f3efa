package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Category is one of the four coarse role buckets used for constraint counting.
type Category string

// Category values
const (
	CategoryGK  Category = "GK"
	CategoryDEF Category = "DEF"
	CategoryMID Category = "MID"
	CategoryFWD Category = "FWD"
)

// Categories lists the buckets in squad order.
var Categories = []Category{CategoryGK, CategoryDEF, CategoryMID, CategoryFWD}

// roleCategories maps each specific role to its bucket.
var roleCategories = map[string]Category{
	"GK":  CategoryGK,
	"CB":  CategoryDEF,
	"LB":  CategoryDEF,
	"RB":  CategoryDEF,
	"LWB": CategoryDEF,
	"RWB": CategoryDEF,
	"CM":  CategoryMID,
	"CDM": CategoryMID,
	"CAM": CategoryMID,
	"LM":  CategoryMID,
	"RM":  CategoryMID,
	"LCM": CategoryMID,
	"RCM": CategoryMID,
	"ST":  CategoryFWD,
	"LW":  CategoryFWD,
	"RW":  CategoryFWD,
	"CF":  CategoryFWD,
	"LF":  CategoryFWD,
	"RF":  CategoryFWD,
}

// ParseCategory normalizes a category or a specific role ("lb", "DEF") to a Category.
// Returns false when the value maps to no bucket.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch Category(s) {
	case CategoryGK, CategoryDEF, CategoryMID, CategoryFWD:
		return Category(s), true
	}
	c, ok := roleCategories[s]
	return c, ok
}

// ParseRoles splits a comma-separated role list ("LB, LWB") into upper-cased roles.
func ParseRoles(s string) []string {
	var roles []string
	for _, r := range strings.Split(s, ",") {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// GoalkeeperStats holds the goalkeeping attributes reported for keepers.
type GoalkeeperStats struct {
	Diving      int `json:"diving,omitempty" yaml:"diving,omitempty"`
	Handling    int `json:"handling,omitempty" yaml:"handling,omitempty"`
	Kicking     int `json:"kicking,omitempty" yaml:"kicking,omitempty"`
	Positioning int `json:"positioning,omitempty" yaml:"positioning,omitempty"`
	Reflexes    int `json:"reflexes,omitempty" yaml:"reflexes,omitempty"`
	Speed       int `json:"speed,omitempty" yaml:"speed,omitempty"`
}

// Player is one candidate record from the catalog. Treat values as immutable;
// merging produces new copies.
type Player struct {
	ShortName string   `json:"short_name" yaml:"short_name"`
	LongName  string   `json:"long_name,omitempty" yaml:"long_name,omitempty"`
	Category  Category `json:"category" yaml:"category"`
	Roles     []string `json:"roles,omitempty" yaml:"roles,omitempty"`

	Overall   int `json:"overall" yaml:"overall"`
	Potential int `json:"potential,omitempty" yaml:"potential,omitempty"`
	Pace      int `json:"pace,omitempty" yaml:"pace,omitempty"`
	Shooting  int `json:"shooting,omitempty" yaml:"shooting,omitempty"`
	Passing   int `json:"passing,omitempty" yaml:"passing,omitempty"`
	Dribbling int `json:"dribbling,omitempty" yaml:"dribbling,omitempty"`
	Defending int `json:"defending,omitempty" yaml:"defending,omitempty"`
	Physic    int `json:"physic,omitempty" yaml:"physic,omitempty"`

	Goalkeeping GoalkeeperStats `json:"goalkeeping,omitzero" yaml:"goalkeeping,omitempty"`

	Age        int     `json:"age,omitempty" yaml:"age,omitempty"`
	ValueEUR   float64 `json:"value_eur,omitempty" yaml:"value_eur,omitempty"`
	WageEUR    float64 `json:"wage_eur,omitempty" yaml:"wage_eur,omitempty"`
	HeightCM   int     `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	WeightKG   int     `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	Foot       string  `json:"preferred_foot,omitempty" yaml:"preferred_foot,omitempty"`
	WorkRate   string  `json:"work_rate,omitempty" yaml:"work_rate,omitempty"`
	Reputation int     `json:"international_reputation,omitempty" yaml:"international_reputation,omitempty"`
	SkillMoves int     `json:"skill_moves,omitempty" yaml:"skill_moves,omitempty"`
	WeakFoot   int     `json:"weak_foot,omitempty" yaml:"weak_foot,omitempty"`

	Nationality string `json:"nationality,omitempty" yaml:"nationality,omitempty"`
	Club        string `json:"club,omitempty" yaml:"club,omitempty"`

	Justification string `json:"justification,omitempty" yaml:"justification,omitempty"`

	// SourceID pins the identity to the catalog record a merged copy came
	// from, so overridden ratings do not change who the player is.
	SourceID string `json:"-" yaml:"-"`
}

// ID returns the stable identity of the player, derived from name, rating and club.
// Records with equal IDs are the same entity.
func (p Player) ID() string {
	if p.SourceID != "" {
		return p.SourceID
	}
	h := xxhash.New()
	_, _ = h.WriteString(p.ShortName)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(strconv.Itoa(p.Overall))
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(p.Club)
	return fmt.Sprintf("%016x", h.Sum64())
}

// WithSource returns a copy whose identity is pinned to the given record.
func (p Player) WithSource(source Player) Player {
	p.SourceID = source.ID()
	return p
}

type plainPlayer Player

// MarshalJSON adds the derived id so clients can refer back to the record.
func (p Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID string `json:"id"`
		plainPlayer
	}{ID: p.ID(), plainPlayer: plainPlayer(p)})
}

// DisplayName prefers the short name.
func (p Player) DisplayName() string {
	if p.ShortName != "" {
		return p.ShortName
	}
	if p.LongName != "" {
		return p.LongName
	}
	return "Unknown"
}

// PrimaryRole is the first specific role, or the category when no roles are known.
func (p Player) PrimaryRole() string {
	if len(p.Roles) > 0 {
		return p.Roles[0]
	}
	return string(p.Category)
}

// PlaysAny reports whether any of the player's roles is in the given set.
func (p Player) PlaysAny(roles map[string]bool) bool {
	for _, r := range p.Roles {
		if roles[r] {
			return true
		}
	}
	return false
}

// Cost is the market value in EUR millions.
func (p Player) Cost() float64 {
	return p.ValueEUR / 1_000_000
}

// Price is the cost rounded to one decimal, as presented to users.
func (p Player) Price() float64 {
	return math.Round(p.Cost()*10) / 10
}

// IsGoalkeeper reports whether the player is a keeper by category or primary role.
func (p Player) IsGoalkeeper() bool {
	return p.Category == CategoryGK || p.PrimaryRole() == "GK"
}

// StatLine is the six-stat summary shown for any player.
type StatLine struct {
	Pace      int `json:"pace" yaml:"pace"`
	Shooting  int `json:"shooting" yaml:"shooting"`
	Passing   int `json:"passing" yaml:"passing"`
	Dribbling int `json:"dribbling" yaml:"dribbling"`
	Defending int `json:"defending" yaml:"defending"`
	Physical  int `json:"physical" yaml:"physical"`
}

// Stats returns the summary line. Keepers report goalkeeping attributes where
// present, falling back to the outfield value.
func (p Player) Stats() StatLine {
	if !p.IsGoalkeeper() {
		return StatLine{p.Pace, p.Shooting, p.Passing, p.Dribbling, p.Defending, p.Physic}
	}
	gk := p.Goalkeeping
	return StatLine{
		Pace:      orInt(gk.Speed, p.Pace),
		Shooting:  orInt(gk.Kicking, p.Shooting),
		Passing:   orInt(gk.Kicking, p.Passing),
		Dribbling: orInt(gk.Handling, p.Dribbling),
		Defending: orInt(gk.Positioning, p.Defending),
		Physical:  orInt(gk.Reflexes, p.Physic),
	}
}

func orInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}
