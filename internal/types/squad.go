package types

// Exclusion is a notable candidate the oracle chose to leave out.
type Exclusion struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// Selection is the parsed and validated proposal from the oracle.
type Selection struct {
	Selected   []Player    `json:"selected"`
	Excluded   []Exclusion `json:"excluded"`
	TotalCost  float64     `json:"total_cost"`
	Notes      string      `json:"notes"`
	Attempts   int         `json:"attempts"`
	Violations []Violation `json:"violations,omitempty"`
}

// Valid reports whether the last attempt passed validation.
func (s Selection) Valid() bool {
	return len(s.Violations) == 0
}

// SlotResult is one position on the pitch, bench or reserve list.
type SlotResult struct {
	Role         string   `json:"position" yaml:"position"`
	X            int      `json:"x" yaml:"x"`
	Y            int      `json:"y" yaml:"y"`
	Player       *Player  `json:"player" yaml:"player"`
	Alternatives []Player `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// Filled reports whether the slot has an occupant.
func (s SlotResult) Filled() bool {
	return s.Player != nil
}

// Tactics are the request-level tactical parameters.
type Tactics struct {
	Formation         string  `json:"formation" yaml:"formation"`
	BuildUpStyle      string  `json:"buildUpStyle" yaml:"build_up_style"`
	DefensiveApproach string  `json:"defensiveApproach" yaml:"defensive_approach"`
	BudgetEnabled     bool    `json:"budgetEnabled" yaml:"budget_enabled"`
	Budget            float64 `json:"budget" yaml:"budget"`
}

// SquadResult is the full outcome of one build.
type SquadResult struct {
	PitchSlots        []SlotResult `json:"pitchSlots" yaml:"pitch_slots"`
	BenchSlots        []SlotResult `json:"benchSlots" yaml:"bench_slots"`
	ReserveSlots      []SlotResult `json:"reserveSlots" yaml:"reserve_slots"`
	StrategyReasoning string       `json:"strategyReasoning" yaml:"strategy_reasoning"`
	AIMessage         string       `json:"aiMessage" yaml:"ai_message"`
	Excluded          []Exclusion  `json:"excluded" yaml:"excluded"`
	TotalCost         float64      `json:"totalCost" yaml:"total_cost"`
	Fallback          bool         `json:"fallback" yaml:"fallback"`
	Cached            bool         `json:"cached" yaml:"cached"`
	Fingerprint       string       `json:"fingerprint" yaml:"fingerprint"`
	Tactics           *Tactics     `json:"tactics,omitempty" yaml:"tactics,omitempty"`
}

// Players returns every occupant across pitch, bench and reserves in order.
func (r SquadResult) Players() []Player {
	var out []Player
	for _, group := range [][]SlotResult{r.PitchSlots, r.BenchSlots, r.ReserveSlots} {
		for _, s := range group {
			if s.Player != nil {
				out = append(out, *s.Player)
			}
		}
	}
	return out
}

// Replacement is a suggested swap for a slot.
type Replacement struct {
	Player Player `json:"player"`
	Reason string `json:"reason"`
}
