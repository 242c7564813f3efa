package selection

import (
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"

	"github.com/jonathan/squad-builder/internal/types"
)

// Response is the structured content of one oracle answer. Selected entries are
// partial records carrying only what the oracle stated.
type Response struct {
	Selected     []types.Player
	Excluded     []types.Exclusion
	DeclaredCost float64
	Notes        string
}

type section string

const (
	sectionSelected section = "SELECTED"
	sectionExcluded section = "EXCLUDED"
	sectionCost     section = "TOTAL_COST"
	sectionNotes    section = "NOTES"
)

var sectionAliases = map[string]section{
	"SELECTED":        sectionSelected,
	"EXCLUDED":        sectionExcluded,
	"TOTAL_COST":      sectionCost,
	"TOTAL_WAGE":      sectionCost,
	"NOTES":           sectionNotes,
	"FORMATION_NOTES": sectionNotes,
}

var (
	markerPattern = regexp.MustCompile(`---\s*([A-Za-z_]+)\s*---`)
	numberPattern = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?|-?\.\d+`)
	listPrefix    = regexp.MustCompile(`^(?:[-*•]\s+|\d+[.)]\s+)`)
)

// eurThreshold separates amounts quoted in EUR millions from raw EUR.
const eurThreshold = 10_000

// Parse extracts the sections of an oracle answer. Markers are matched without
// regard to case or order. An answer with none of the sections yields
// ErrUnparsable.
func Parse(text string) (Response, error) {
	sections := splitSections(text)
	if len(sections) == 0 {
		return Response{}, zerr.With(zerr.Wrap(ErrUnparsable, "no section markers found"), "length", len(text))
	}

	var r Response
	for _, line := range contentLines(sections[sectionSelected]) {
		if p, ok := parseSelectedLine(line); ok {
			r.Selected = append(r.Selected, p)
		}
	}
	for _, line := range contentLines(sections[sectionExcluded]) {
		parts := splitFields(line)
		if parts[0] == "" {
			continue
		}
		r.Excluded = append(r.Excluded, types.Exclusion{
			Name:   parts[0],
			Reason: strings.Join(parts[1:], " | "),
		})
	}
	r.DeclaredCost = toMillions(parseNum(sections[sectionCost]))
	r.Notes = strings.TrimSpace(sections[sectionNotes])
	return r, nil
}

// splitSections maps each recognized section to its raw body. Unknown markers
// terminate the preceding section and are otherwise ignored. The first
// occurrence of a section wins.
func splitSections(text string) map[section]string {
	out := make(map[section]string)
	locs := markerPattern.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		name := strings.ToUpper(text[loc[2]:loc[3]])
		sec, known := sectionAliases[name]
		if !known {
			continue
		}
		if _, seen := out[sec]; seen {
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out[sec] = text[loc[1]:end]
	}
	return out
}

// contentLines returns the trimmed non-empty lines of a section, skipping
// bracketed placeholder lines.
func contentLines(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		lines = append(lines, listPrefix.ReplaceAllString(line, ""))
	}
	return lines
}

func splitFields(line string) []string {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseSelectedLine reads "name | category | rating | cost | justification".
// Missing trailing fields keep their zero values.
func parseSelectedLine(line string) (types.Player, bool) {
	parts := splitFields(line)
	if parts[0] == "" {
		return types.Player{}, false
	}
	p := types.Player{ShortName: parts[0]}
	if len(parts) > 1 {
		if cat, ok := types.ParseCategory(parts[1]); ok {
			p.Category = cat
		}
	}
	if len(parts) > 2 {
		p.Overall = int(parseNum(parts[2]))
	}
	if len(parts) > 3 {
		p.ValueEUR = toMillions(parseNum(parts[3])) * 1_000_000
	}
	if len(parts) > 4 {
		p.Justification = strings.Join(parts[4:], " | ")
	}
	return p, true
}

// parseNum returns the first number in s, or 0.
func parseNum(s string) float64 {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// toMillions normalizes an amount to EUR millions. Large values are taken to
// be raw EUR.
func toMillions(v float64) float64 {
	if v >= eurThreshold {
		return v / 1_000_000
	}
	return v
}
