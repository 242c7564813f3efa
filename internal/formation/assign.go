package formation

import "github.com/jonathan/squad-builder/internal/types"

// Bucket sizes for players left off the pitch.
const (
	BenchSize   = 7
	ReserveSize = 5
)

// Assignment is the placement of a selection into a formation.
type Assignment struct {
	Formation Formation
	Pitch     []types.SlotResult
	Bench     []types.SlotResult
	Reserves  []types.SlotResult
}

// Assign places players into the named formation using two greedy passes.
// Pass one fills slots with an exact primary-role match; pass two fills the rest
// with any compatible role. Slots without a candidate stay empty. Leftover
// players, in their original order, fill the bench and then the reserves;
// anything beyond is dropped.
func Assign(selected []types.Player, formationName string) Assignment {
	f, _ := Lookup(formationName)

	remaining := make([]types.Player, len(selected))
	copy(remaining, selected)

	occupants := make([]*types.Player, len(f.Slots))

	take := func(i int) *types.Player {
		p := remaining[i]
		remaining = append(remaining[:i], remaining[i+1:]...)
		return &p
	}

	for si, slot := range f.Slots {
		for i, p := range remaining {
			if len(p.Roles) > 0 && p.Roles[0] == slot.Role {
				occupants[si] = take(i)
				break
			}
		}
	}

	for si, slot := range f.Slots {
		if occupants[si] != nil {
			continue
		}
		allowed := Compatible(slot.Role)
		for i, p := range remaining {
			if p.PlaysAny(allowed) {
				occupants[si] = take(i)
				break
			}
		}
	}

	pitch := make([]types.SlotResult, len(f.Slots))
	for si, slot := range f.Slots {
		pitch[si] = types.SlotResult{Role: slot.Role, X: slot.X, Y: slot.Y, Player: occupants[si]}
	}

	bench, rest := overflow(remaining, BenchSize)
	reserves, _ := overflow(rest, ReserveSize)

	return Assignment{
		Formation: f,
		Pitch:     pitch,
		Bench:     bench,
		Reserves:  reserves,
	}
}

// overflow turns up to n players into coordinate-less slots and returns the rest.
func overflow(players []types.Player, n int) ([]types.SlotResult, []types.Player) {
	if n > len(players) {
		n = len(players)
	}
	slots := make([]types.SlotResult, 0, n)
	for i := 0; i < n; i++ {
		p := players[i]
		slots = append(slots, types.SlotResult{Role: p.PrimaryRole(), Player: &p})
	}
	return slots, players[n:]
}

// Occupied returns the IDs of every filled pitch slot.
func Occupied(pitch []types.SlotResult) map[string]bool {
	ids := make(map[string]bool, len(pitch))
	for _, s := range pitch {
		if s.Player != nil {
			ids[s.Player.ID()] = true
		}
	}
	return ids
}
