package types

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// DefaultMaxPlayers is the squad size ceiling.
const DefaultMaxPlayers = 23

// ErrInvalidConstraints is returned when a constraint set cannot be satisfied by construction.
var ErrInvalidConstraints = zerr.New("invalid squad constraints")

// Bounds is an inclusive [Min, Max] count range for one category.
type Bounds struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Constraints are the hard rules a selection must satisfy.
type Constraints struct {
	MaxPlayers int                 `json:"max_players" yaml:"max_players"`
	Categories map[Category]Bounds `json:"categories" yaml:"categories"`
	// Budget is in EUR millions and applies only when BudgetEnabled is set.
	Budget        float64 `json:"budget,omitempty" yaml:"budget,omitempty"`
	BudgetEnabled bool    `json:"budget_enabled" yaml:"budget_enabled"`
}

// CountLimits are the caller-facing count knobs: goalkeeper range plus outfield minimums.
type CountLimits struct {
	MinGK  int `json:"minGK" validate:"gte=0,lte=23"`
	MaxGK  int `json:"maxGK" validate:"gte=0,lte=23,gtefield=MinGK"`
	MinDEF int `json:"minDEF" validate:"gte=0,lte=23"`
	MinMID int `json:"minMID" validate:"gte=0,lte=23"`
	MinFWD int `json:"minFWD" validate:"gte=0,lte=23"`
}

// DefaultCountLimits applies when a caller omits constraints: 3 keepers and at least 8/7/5 outfield.
func DefaultCountLimits() CountLimits {
	return CountLimits{MinGK: 3, MaxGK: 3, MinDEF: 8, MinMID: 7, MinFWD: 5}
}

// IsZero reports whether no limit was supplied.
func (c CountLimits) IsZero() bool {
	return c == CountLimits{}
}

// NewConstraints builds a validated constraint set. Outfield maxima default to the ceiling.
func NewConstraints(limits CountLimits, maxPlayers int, budget float64, budgetEnabled bool) (Constraints, error) {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	c := Constraints{
		MaxPlayers: maxPlayers,
		Categories: map[Category]Bounds{
			CategoryGK:  {Min: limits.MinGK, Max: limits.MaxGK},
			CategoryDEF: {Min: limits.MinDEF, Max: maxPlayers},
			CategoryMID: {Min: limits.MinMID, Max: maxPlayers},
			CategoryFWD: {Min: limits.MinFWD, Max: maxPlayers},
		},
		Budget:        budget,
		BudgetEnabled: budgetEnabled && budget > 0,
	}
	if err := c.Validate(); err != nil {
		return Constraints{}, err
	}
	return c, nil
}

// Validate checks that the constraint set is internally consistent.
func (c Constraints) Validate() error {
	if c.MaxPlayers <= 0 {
		return zerr.With(zerr.Wrap(ErrInvalidConstraints, "ceiling must be positive"), "max_players", c.MaxPlayers)
	}
	sum := 0
	for _, cat := range Categories {
		b := c.Categories[cat]
		if b.Min < 0 || b.Max < 0 {
			return zerr.With(zerr.Wrap(ErrInvalidConstraints, "negative bound"), "category", string(cat))
		}
		if b.Min > b.Max {
			return zerr.With(zerr.Wrap(ErrInvalidConstraints, fmt.Sprintf("%s minimum %d exceeds maximum %d", cat, b.Min, b.Max)), "category", string(cat))
		}
		sum += b.Min
	}
	if sum > c.MaxPlayers {
		return zerr.With(zerr.Wrap(ErrInvalidConstraints, fmt.Sprintf("category minimums sum to %d, above ceiling %d", sum, c.MaxPlayers)), "sum", sum)
	}
	if c.BudgetEnabled && c.Budget <= 0 {
		return zerr.Wrap(ErrInvalidConstraints, "budget must be positive when enabled")
	}
	return nil
}

// Bounds returns the range for a category.
func (c Constraints) Bounds(cat Category) Bounds {
	return c.Categories[cat]
}

// Describe renders the constraints as prompt text.
func (c Constraints) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- Total players: at most %d\n", c.MaxPlayers)
	for _, cat := range Categories {
		b := c.Categories[cat]
		if b.Min == b.Max {
			fmt.Fprintf(&sb, "- %s: exactly %d\n", cat, b.Min)
			continue
		}
		fmt.Fprintf(&sb, "- %s: at least %d, at most %d\n", cat, b.Min, b.Max)
	}
	if c.BudgetEnabled {
		fmt.Fprintf(&sb, "- Total squad value must not exceed EUR %.1f million\n", c.Budget)
	} else {
		sb.WriteString("- No budget limit\n")
	}
	return sb.String()
}
