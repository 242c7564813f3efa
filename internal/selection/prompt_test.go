package selection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/squad-builder/internal/types"
)

func TestFormatCandidate(t *testing.T) {
	p := types.Player{
		ShortName:   "K. Mbappé",
		Category:    types.CategoryFWD,
		Roles:       []string{"ST", "LW"},
		Overall:     91,
		ValueEUR:    181_500_000,
		WageEUR:     230_000,
		Pace:        97,
		Shooting:    90,
		Passing:     80,
		Dribbling:   92,
		Defending:   36,
		Physic:      78,
		Age:         24,
		Nationality: "France",
		Club:        "Paris SG",
	}
	want := "K. Mbappé | FWD | overall=91 | value_m=181.5 wage_eur=230000 | pace=97 shooting=90 passing=80 dribbling=92 defending=36 physic=78 | roles=ST,LW | age=24 | France | Paris SG"
	assert.Equal(t, want, FormatCandidate(p))
}

func TestBuildPrompt_FirstAttempt(t *testing.T) {
	in := PromptInput{Candidates: scenarioShortlist()[:2], Constraints: defaultConstraints()}

	prompt, err := BuildPrompt(in, 1, []types.Violation{{Type: types.ViolationBudget, Got: 1, Limit: 0}})
	require.NoError(t, err)

	assert.Contains(t, prompt, "at most 23 players")
	assert.Contains(t, prompt, "- GK: exactly 3")
	assert.Contains(t, prompt, "None specified.")
	assert.Contains(t, prompt, "GK01 | GK | overall=90")
	assert.NotContains(t, prompt, "CORRECTION")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildPrompt_RetryListsViolations(t *testing.T) {
	in := PromptInput{Candidates: scenarioShortlist(), Constraints: defaultConstraints(), Preferences: "fast wingers"}
	prior := []types.Violation{
		{Type: types.ViolationCategoryMax, Category: types.CategoryGK, Got: 4, Limit: 3},
		{Type: types.ViolationCategoryMin, Category: types.CategoryFWD, Got: 4, Limit: 5},
	}

	prompt, err := BuildPrompt(in, 2, prior)
	require.NoError(t, err)

	assert.Contains(t, prompt, "fast wingers")
	assert.Contains(t, prompt, "CORRECTION (attempt 2)")
	assert.Contains(t, prompt, "- GK count 4 is above the maximum 3\n- FWD count 4 is below the minimum 5")

	again, err := BuildPrompt(in, 2, prior)
	require.NoError(t, err)
	assert.Equal(t, prompt, again)

	first, err := BuildPrompt(in, 1, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prompt, first))
}
