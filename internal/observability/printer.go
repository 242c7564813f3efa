// Package observability renders squad builds and progress for the CLI.
package observability

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/squad-builder/internal/pipeline"
	"github.com/jonathan/squad-builder/internal/types"
)

// maxItemsToShow caps alternatives and exclusions per section.
const maxItemsToShow = 3

// Palette.
var (
	iris  = lipgloss.Color("#8B5CF6")
	slate = lipgloss.Color("#667085")
	white = lipgloss.Color("#FFFFFF")
	green = lipgloss.Color("#22A06B")
	red   = lipgloss.Color("#D93025")
	amber = lipgloss.Color("#F59E0B")
)

// Printer writes styled output. Styles degrade to plain text when out is not a terminal.
type Printer struct {
	out io.Writer

	title   lipgloss.Style
	section lipgloss.Style
	role    lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	empty   lipgloss.Style
	box     lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		title:   r.NewStyle().Bold(true).Padding(0, 1).Background(iris).Foreground(white),
		section: r.NewStyle().Bold(true).Foreground(iris).MarginTop(1),
		role:    r.NewStyle().Bold(true).Width(5),
		name:    r.NewStyle().Width(22),
		muted:   r.NewStyle().Foreground(slate),
		ok:      r.NewStyle().Foreground(green),
		warn:    r.NewStyle().Foreground(amber),
		empty:   r.NewStyle().Foreground(red).Faint(true),
		box:     r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(slate).Padding(0, 1),
	}
}

// PrintSquad outputs the full squad: pitch, bench, reserves and the summary.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSquad(r types.SquadResult) {
	fmt.Fprintln(p.out, p.title.Render("Squad"))

	var flags []string
	if r.Fallback {
		flags = append(flags, p.warn.Render("fallback"))
	}
	if r.Cached {
		flags = append(flags, p.muted.Render("cached"))
	}
	if len(flags) > 0 {
		fmt.Fprintln(p.out, strings.Join(flags, " "))
	}
	if r.Tactics != nil {
		fmt.Fprintln(p.out, p.muted.Render(describeTactics(*r.Tactics)))
	}

	p.printSlots("Starting XI", r.PitchSlots, true)
	p.printSlots("Bench", r.BenchSlots, false)
	p.printSlots("Reserves", r.ReserveSlots, false)

	if len(r.Excluded) > 0 {
		fmt.Fprintln(p.out, p.section.Render("Left out"))
		count := min(len(r.Excluded), maxItemsToShow)
		for _, e := range r.Excluded[:count] {
			fmt.Fprintf(p.out, "  %s %s\n", e.Name, p.muted.Render(e.Reason))
		}
		if len(r.Excluded) > count {
			fmt.Fprintln(p.out, p.muted.Render(fmt.Sprintf("  ... and %d more", len(r.Excluded)-count)))
		}
	}

	summary := r.AIMessage
	if r.StrategyReasoning != "" {
		summary += "\n\n" + r.StrategyReasoning
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.box.Render(summary))
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printSlots(heading string, slots []types.SlotResult, withAlternatives bool) {
	if len(slots) == 0 {
		return
	}
	fmt.Fprintln(p.out, p.section.Render(fmt.Sprintf("%s (%d)", heading, len(slots))))
	for _, s := range slots {
		if !s.Filled() {
			fmt.Fprintf(p.out, "  %s%s\n", p.role.Render(s.Role), p.empty.Render("unfilled"))
			continue
		}
		fmt.Fprintf(p.out, "  %s%s%s\n", p.role.Render(s.Role), p.name.Render(s.Player.DisplayName()), p.muted.Render(playerLine(*s.Player)))
		if withAlternatives && len(s.Alternatives) > 0 {
			count := min(len(s.Alternatives), maxItemsToShow)
			names := make([]string, 0, count)
			for _, a := range s.Alternatives[:count] {
				names = append(names, fmt.Sprintf("%s (%d)", a.DisplayName(), a.Overall))
			}
			fmt.Fprintf(p.out, "       %s\n", p.muted.Render("alt: "+strings.Join(names, ", ")))
		}
	}
}

// PrintProgress outputs one build step.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(e pipeline.ProgressEvent) {
	marker := p.ok.Render("✓")
	if e.Step == pipeline.StepFallback {
		marker = p.warn.Render("!")
	}
	fmt.Fprintf(p.out, "%s %s %s\n", marker, p.muted.Render("["+e.Step+"]"), e.Message)
}

// PrintReplacements outputs swap suggestions for a slot.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReplacements(position string, reps []types.Replacement) {
	fmt.Fprintln(p.out, p.title.Render("Replacements for "+position))
	if len(reps) == 0 {
		fmt.Fprintln(p.out, p.muted.Render("  no compatible players in the shortlist"))
		return
	}
	for i, r := range reps {
		fmt.Fprintf(p.out, "  %d. %s%s\n", i+1, p.name.Render(r.Player.DisplayName()), p.muted.Render(r.Reason))
	}
}

// PrintPlayers outputs catalog search results.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintPlayers(players []types.Player) {
	if len(players) == 0 {
		fmt.Fprintln(p.out, p.muted.Render("no players found"))
		return
	}
	for _, pl := range players {
		fmt.Fprintf(p.out, "  %s%s%s\n", p.role.Render(pl.PrimaryRole()), p.name.Render(pl.DisplayName()), p.muted.Render(playerLine(pl)))
	}
}

// playerLine is the compact stat line shown beside a name.
func playerLine(pl types.Player) string {
	parts := []string{"OVR " + strconv.Itoa(pl.Overall)}
	if pl.Club != "" {
		parts = append(parts, pl.Club)
	}
	if pl.Nationality != "" {
		parts = append(parts, pl.Nationality)
	}
	if price := pl.Price(); price > 0 {
		parts = append(parts, "€"+strconv.FormatFloat(price, 'f', -1, 64)+"M")
	}
	return strings.Join(parts, " · ")
}

func describeTactics(t types.Tactics) string {
	s := fmt.Sprintf("%s · %s build-up · %s defence", t.Formation, t.BuildUpStyle, t.DefensiveApproach)
	if t.BudgetEnabled {
		s += fmt.Sprintf(" · budget €%sM", strconv.FormatFloat(t.Budget, 'f', -1, 64))
	}
	return s
}
