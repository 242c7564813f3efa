package cache

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Key holds every request field that affects a build result.
type Key struct {
	Query             string
	Formation         string
	BuildUpStyle      string
	DefensiveApproach string
	Budget            float64
	BudgetEnabled     bool
	MinGK             int
	MaxGK             int
	MinDEF            int
	MinMID            int
	MinFWD            int
}

// Fingerprint returns a stable hash of the key. Fields are serialized as a JSON
// object with sorted keys so field order never affects the result.
func Fingerprint(k Key) string {
	canonical := map[string]any{
		"query":              k.Query,
		"formation":          k.Formation,
		"build_up_style":     k.BuildUpStyle,
		"defensive_approach": k.DefensiveApproach,
		"budget":             k.Budget,
		"budget_enabled":     k.BudgetEnabled,
		"min_gk":             k.MinGK,
		"max_gk":             k.MaxGK,
		"min_def":            k.MinDEF,
		"min_mid":            k.MinMID,
		"min_fwd":            k.MinFWD,
	}
	// A map of strings, numbers and bools always marshals.
	data, _ := json.Marshal(canonical)
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
