package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/squad-builder/internal/pipeline"
	"github.com/jonathan/squad-builder/internal/types"
)

func player(name, role string, overall int, valueEUR float64) *types.Player {
	cat, _ := types.ParseCategory(role)
	return &types.Player{ShortName: name, Category: cat, Roles: []string{role}, Overall: overall, ValueEUR: valueEUR, Club: "FC Test"}
}

func TestPrintSquad(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := types.SquadResult{
		PitchSlots: []types.SlotResult{
			{Role: "GK", Player: player("A. Keeper", "GK", 88, 40_000_000), Alternatives: []types.Player{
				*player("B. Keeper", "GK", 85, 0), *player("C. Keeper", "GK", 84, 0),
				*player("D. Keeper", "GK", 83, 0), *player("E. Keeper", "GK", 82, 0),
			}},
			{Role: "LB"},
		},
		BenchSlots: []types.SlotResult{{Role: "SUB", Player: player("F. Sub", "ST", 80, 12_500_000)}},
		Excluded:   []types.Exclusion{{Name: "G. Star", Reason: "over budget"}},
		AIMessage:  "Built a 4-3-3 balanced squad with balanced defensive approach. 2 players selected. Total cost: €52M.",
		Fallback:   true,
		Tactics:    &types.Tactics{Formation: "4-3-3", BuildUpStyle: "Balanced", DefensiveApproach: "Balanced", BudgetEnabled: true, Budget: 300},
	}
	p.PrintSquad(result)
	out := buf.String()

	assert.Contains(t, out, "Starting XI (2)")
	assert.Contains(t, out, "A. Keeper")
	assert.Contains(t, out, "OVR 88 · FC Test · €40M")
	assert.Contains(t, out, "alt: B. Keeper (85), C. Keeper (84), D. Keeper (83)")
	assert.NotContains(t, out, "E. Keeper")
	assert.Contains(t, out, "unfilled")
	assert.Contains(t, out, "Bench (1)")
	assert.Contains(t, out, "€12.5M")
	assert.NotContains(t, out, "Reserves")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "budget €300M")
	assert.Contains(t, out, "G. Star")
	assert.Contains(t, out, "Total cost: €52M.")
	assert.NotContains(t, out, "\x1b[", "no ANSI codes when writing to a buffer")
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProgress(pipeline.ProgressEvent{Step: pipeline.StepShortlist, Message: "Searching the catalog for candidates"})
	p.PrintProgress(pipeline.ProgressEvent{Step: pipeline.StepFallback, Message: "Using the top-rated candidates"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"✓ [shortlist] Searching the catalog for candidates",
		"! [fallback] Using the top-rated candidates",
	}, lines)
}

func TestPrintReplacements(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReplacements("GK", []types.Replacement{{Player: *player("B. Keeper", "GK", 85, 0), Reason: "Solid GK option, rated 85."}})
	assert.Contains(t, buf.String(), "Replacements for GK")
	assert.Contains(t, buf.String(), "1. B. Keeper")
	assert.Contains(t, buf.String(), "Solid GK option, rated 85.")

	buf.Reset()
	p.PrintReplacements("ST", nil)
	assert.Contains(t, buf.String(), "no compatible players")
}

func TestPrintPlayers(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPlayers(nil)
	assert.Contains(t, buf.String(), "no players found")

	buf.Reset()
	p.PrintPlayers([]types.Player{*player("H. Back", "LB", 81, 0)})
	assert.Contains(t, buf.String(), "LB")
	assert.Contains(t, buf.String(), "H. Back")
	assert.NotContains(t, buf.String(), "€", "unpriced players show no value")
}
