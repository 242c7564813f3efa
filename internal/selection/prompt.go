package selection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/squad-builder/internal/prompts"
	"github.com/jonathan/squad-builder/internal/types"
)

const promptFile = "squad.json"

// PromptInput is everything the oracle sees on one attempt.
type PromptInput struct {
	Candidates  []types.Player
	Constraints types.Constraints
	Preferences string
}

// FormatCandidate renders one shortlist record as a pipe-separated prompt line.
func FormatCandidate(p types.Player) string {
	s := p.Stats()
	return fmt.Sprintf("%s | %s | overall=%d | value_m=%s wage_eur=%d | pace=%d shooting=%d passing=%d dribbling=%d defending=%d physic=%d | roles=%s | age=%d | %s | %s",
		p.DisplayName(),
		p.Category,
		p.Overall,
		strconv.FormatFloat(p.Price(), 'f', -1, 64),
		int64(p.WageEUR),
		s.Pace, s.Shooting, s.Passing, s.Dribbling, s.Defending, s.Physical,
		strings.Join(p.Roles, ","),
		p.Age,
		orUnknown(p.Nationality),
		orUnknown(p.Club),
	)
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// FormatCandidates renders the shortlist, one record per line.
func FormatCandidates(players []types.Player) string {
	lines := make([]string, len(players))
	for i, p := range players {
		lines[i] = FormatCandidate(p)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt renders the selection prompt for an attempt. From the second
// attempt on, a correction section listing the prior violations is appended.
// It has no side effects.
func BuildPrompt(in PromptInput, attempt int, prior []types.Violation) (string, error) {
	tmpl, err := prompts.Get(promptFile, "select-squad")
	if err != nil {
		return "", &Error{Message: "failed to load selection prompt", Cause: err}
	}

	prefs := strings.TrimSpace(in.Preferences)
	if prefs == "" {
		prefs, err = prompts.Get(promptFile, "default-preferences")
		if err != nil {
			return "", &Error{Message: "failed to load default preferences", Cause: err}
		}
	}

	prompt := prompts.Format(tmpl, map[string]string{
		"MaxPlayers":  strconv.Itoa(in.Constraints.MaxPlayers),
		"Constraints": in.Constraints.Describe(),
		"Preferences": prefs,
		"Candidates":  FormatCandidates(in.Candidates),
	})

	if attempt <= 1 || len(prior) == 0 {
		return prompt, nil
	}

	correction, err := prompts.Get(promptFile, "correction")
	if err != nil {
		return "", &Error{Message: "failed to load correction prompt", Cause: err}
	}
	var sb strings.Builder
	for _, v := range prior {
		sb.WriteString("- ")
		sb.WriteString(v.String())
		sb.WriteString("\n")
	}
	return prompt + prompts.Format(correction, map[string]string{
		"Attempt":    strconv.Itoa(attempt),
		"Violations": strings.TrimRight(sb.String(), "\n"),
	}), nil
}
