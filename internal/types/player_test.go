package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerID_StableAndDistinct(t *testing.T) {
	a := Player{ShortName: "K. Mbappé", Overall: 91, Club: "Paris Saint Germain"}
	b := Player{ShortName: "K. Mbappé", Overall: 91, Club: "Paris Saint Germain", Pace: 97}
	c := Player{ShortName: "K. Mbappé", Overall: 90, Club: "Paris Saint Germain"}

	assert.Equal(t, a.ID(), b.ID(), "non-identity fields must not affect ID")
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Len(t, a.ID(), 16)
}

func TestPlayerID_SeparatorPreventsCollisions(t *testing.T) {
	a := Player{ShortName: "AB", Overall: 1, Club: "C"}
	b := Player{ShortName: "A", Overall: 1, Club: "BC"}
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestPlayerID_PinnedToSource(t *testing.T) {
	source := Player{ShortName: "Alisson", Overall: 89, Club: "Liverpool"}
	restated := source
	restated.Overall = 91
	restated.Club = "Liverpool FC"

	pinned := restated.WithSource(source)
	assert.Equal(t, source.ID(), pinned.ID())
	assert.NotEqual(t, source.ID(), restated.ID())
	assert.Equal(t, 91, pinned.Overall)
}

func TestPlayer_MarshalJSONCarriesID(t *testing.T) {
	p := Player{ShortName: "K. Mbappé", Category: CategoryFWD, Overall: 91, Club: "PSG"}
	data, err := json.Marshal(SlotResult{Role: "ST", Player: &p})
	require.NoError(t, err)

	var decoded struct {
		Player map[string]any `json:"player"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p.ID(), decoded.Player["id"])
	assert.Equal(t, "K. Mbappé", decoded.Player["short_name"])
	assert.NotContains(t, decoded.Player, "goalkeeping", "outfield players carry no keeper stats")
	assert.NotContains(t, decoded.Player, "SourceID")

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var back Player
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, p, back)
}

func TestPlayer_MarshalJSONKeepsKeeperStats(t *testing.T) {
	p := Player{ShortName: "Alisson", Category: CategoryGK, Overall: 89, Goalkeeping: GoalkeeperStats{Diving: 86}}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"goalkeeping":{"diving":86}`)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   Category
		wantOK bool
	}{
		{"GK", CategoryGK, true},
		{"def", CategoryDEF, true},
		{" LWB ", CategoryDEF, true},
		{"CAM", CategoryMID, true},
		{"RF", CategoryFWD, true},
		{"SUB", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCategory(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRoles(t *testing.T) {
	assert.Equal(t, []string{"LB", "LWB", "LM"}, ParseRoles("lb, LWB,,LM "))
	assert.Nil(t, ParseRoles(""))
}

func TestPlayer_PrimaryRoleAndCost(t *testing.T) {
	p := Player{Category: CategoryDEF, ValueEUR: 45_250_000}
	assert.Equal(t, "DEF", p.PrimaryRole())
	assert.InDelta(t, 45.25, p.Cost(), 1e-9)
	assert.InDelta(t, 45.3, p.Price(), 1e-9)

	p.Roles = []string{"RB", "RWB"}
	assert.Equal(t, "RB", p.PrimaryRole())
	assert.True(t, p.PlaysAny(map[string]bool{"RWB": true}))
	assert.False(t, p.PlaysAny(map[string]bool{"LB": true}))
}

func TestPlayer_DisplayName(t *testing.T) {
	assert.Equal(t, "Pedri", Player{ShortName: "Pedri", LongName: "Pedro González López"}.DisplayName())
	assert.Equal(t, "Pedro González López", Player{LongName: "Pedro González López"}.DisplayName())
	assert.Equal(t, "Unknown", Player{}.DisplayName())
}

func TestPlayer_Stats(t *testing.T) {
	outfield := Player{Category: CategoryMID, Roles: []string{"CM"}, Pace: 70, Shooting: 75, Passing: 88, Dribbling: 84, Defending: 72, Physic: 78}
	assert.Equal(t, StatLine{70, 75, 88, 84, 72, 78}, outfield.Stats())

	keeper := Player{
		Category:    CategoryGK,
		Roles:       []string{"GK"},
		Physic:      60,
		Goalkeeping: GoalkeeperStats{Diving: 88, Handling: 85, Kicking: 80, Positioning: 87, Speed: 55},
	}
	assert.Equal(t, StatLine{Pace: 55, Shooting: 80, Passing: 80, Dribbling: 85, Defending: 87, Physical: 60}, keeper.Stats())
}
