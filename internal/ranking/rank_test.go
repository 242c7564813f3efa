package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/squad-builder/internal/types"
)

func mk(name string, cat types.Category, overall int, roles ...string) types.Player {
	return types.Player{ShortName: name, Category: cat, Overall: overall, Roles: roles, Club: "FC"}
}

func names(players []types.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ShortName
	}
	return out
}

func TestAlternatives_ExcludesOccupiedAndRanks(t *testing.T) {
	starter := mk("Starter", types.CategoryDEF, 88, "LB")
	otherStarter := mk("OtherStarter", types.CategoryDEF, 90, "CB")
	shortlist := []types.Player{
		starter,
		otherStarter,
		mk("WingBack", types.CategoryDEF, 82, "LWB"),
		mk("RightBack", types.CategoryDEF, 85, "RB"),
		mk("Winger", types.CategoryFWD, 89, "LW"),
		mk("Backup", types.CategoryDEF, 84, "LB"),
	}
	slot := types.SlotResult{Role: "LB", Player: &starter}
	occupied := map[string]bool{starter.ID(): true, otherStarter.ID(): true}

	got := Alternatives(slot, shortlist, occupied)

	// RightBack qualifies through the DEF category match, Winger does not.
	assert.Equal(t, []string{"RightBack", "Backup", "WingBack"}, names(got))
}

func TestAlternatives_CappedAtFive(t *testing.T) {
	var shortlist []types.Player
	for i := 0; i < 12; i++ {
		shortlist = append(shortlist, mk(fmt.Sprintf("ST%02d", i), types.CategoryFWD, 70+i, "ST"))
	}

	got := Alternatives(types.SlotResult{Role: "ST"}, shortlist, nil)

	require.Len(t, got, MaxAlternatives)
	assert.Equal(t, "ST11", got[0].ShortName)
	assert.Equal(t, "ST07", got[4].ShortName)
}

func TestAlternatives_StableOnTies(t *testing.T) {
	shortlist := []types.Player{
		mk("First", types.CategoryGK, 80, "GK"),
		mk("Second", types.CategoryGK, 80, "GK"),
	}
	got := Alternatives(types.SlotResult{Role: "GK"}, shortlist, nil)
	assert.Equal(t, []string{"First", "Second"}, names(got))
}

func TestAttachAlternatives(t *testing.T) {
	keeper := mk("Keeper", types.CategoryGK, 85, "GK")
	pitch := []types.SlotResult{{Role: "GK", Player: &keeper}, {Role: "ST"}}
	shortlist := []types.Player{keeper, mk("Backup", types.CategoryGK, 80, "GK"), mk("Nine", types.CategoryFWD, 83, "ST")}

	AttachAlternatives(pitch, shortlist)

	assert.Equal(t, []string{"Backup"}, names(pitch[0].Alternatives))
	assert.Equal(t, []string{"Nine"}, names(pitch[1].Alternatives))
}

func TestSearchCatalog(t *testing.T) {
	players := []types.Player{
		{ShortName: "Pedri", LongName: "Pedro González López", Category: types.CategoryMID, Roles: []string{"CM"}, Overall: 86, Club: "FC Barcelona", Nationality: "Spain"},
		{ShortName: "Rodri", Category: types.CategoryMID, Roles: []string{"CDM"}, Overall: 91, Club: "Manchester City", Nationality: "Spain"},
		{ShortName: "Kane", Category: types.CategoryFWD, Roles: []string{"ST"}, Overall: 90, Club: "FC Bayern München", Nationality: "England"},
	}

	tests := []struct {
		name  string
		role  string
		text  string
		limit int
		want  []string
	}{
		{"no filters", "", "", 20, []string{"Rodri", "Kane", "Pedri"}},
		{"by role", "cm", "", 20, []string{"Rodri", "Pedri"}},
		{"by nation", "", "spain", 20, []string{"Rodri", "Pedri"}},
		{"by long name", "", "gonzález", 20, []string{"Pedri"}},
		{"by club and role", "ST", "bayern", 20, []string{"Kane"}},
		{"limited", "", "", 1, []string{"Rodri"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(SearchCatalog(players, tt.role, tt.text, tt.limit)))
		})
	}
}
