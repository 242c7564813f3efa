package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseKey() Key {
	return Key{
		Query:             "fast wingers",
		Formation:         "4-3-3",
		BuildUpStyle:      "Balanced",
		DefensiveApproach: "High Press",
		Budget:            0,
		BudgetEnabled:     false,
		MinGK:             3,
		MaxGK:             3,
		MinDEF:            8,
		MinMID:            7,
		MinFWD:            5,
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := baseKey()
	b := Key{
		MinFWD:            5,
		MinMID:            7,
		MinDEF:            8,
		MaxGK:             3,
		MinGK:             3,
		BudgetEnabled:     false,
		DefensiveApproach: "High Press",
		BuildUpStyle:      "Balanced",
		Formation:         "4-3-3",
		Query:             "fast wingers",
	}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 16)
}

func TestFingerprint_EveryFieldMatters(t *testing.T) {
	base := Fingerprint(baseKey())

	mutations := map[string]func(*Key){
		"query":     func(k *Key) { k.Query = "slow wingers" },
		"formation": func(k *Key) { k.Formation = "4-4-2" },
		"build-up":  func(k *Key) { k.BuildUpStyle = "Counter-Attack" },
		"defensive": func(k *Key) { k.DefensiveApproach = "Deep Block" },
		"budget":    func(k *Key) { k.Budget = 100 },
		"budget on": func(k *Key) { k.BudgetEnabled = true },
		"min gk":    func(k *Key) { k.MinGK = 2 },
		"max gk":    func(k *Key) { k.MaxGK = 4 },
		"min def":   func(k *Key) { k.MinDEF = 6 },
		"min mid":   func(k *Key) { k.MinMID = 6 },
		"min fwd":   func(k *Key) { k.MinFWD = 4 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			k := baseKey()
			mutate(&k)
			assert.NotEqual(t, base, Fingerprint(k))
		})
	}
}
