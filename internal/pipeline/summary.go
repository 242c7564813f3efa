package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/squad-builder/internal/types"
)

// Preferences renders the tactical settings and the user's query as free text for the oracle.
func Preferences(req types.BuildSquadRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Formation: %s. Build-up style: %s. Defensive approach: %s. User query: %s",
		req.Formation, req.BuildUpStyle, req.DefensiveApproach, req.Prompt)
	if req.BudgetEnabled && req.Budget > 0 {
		b := formatMillions(req.Budget)
		fmt.Fprintf(&sb, ". BUDGET CONSTRAINT (MANDATORY): Total squad value must NOT exceed €%sM. "+
			"Build the strongest possible squad within this €%sM limit. "+
			"If you cannot fit top-tier players, pick the best alternatives that keep total cost under budget.", b, b)
	} else {
		sb.WriteString(". No budget constraint, select purely on quality and suitability.")
	}
	return sb.String()
}

// Summarize produces the one-paragraph narrative shown with a result.
func Summarize(formationName string, req types.BuildSquadRequest, result types.SquadResult) string {
	players := result.Players()
	budget := ""
	if req.BudgetEnabled {
		budget = fmt.Sprintf(" within €%sM budget", formatMillions(req.Budget))
	}
	return fmt.Sprintf("Built a %s %s squad with %s defensive approach. %d players selected%s. Total cost: €%.0fM.",
		formationName,
		strings.ToLower(req.BuildUpStyle),
		strings.ToLower(req.DefensiveApproach),
		len(players),
		budget,
		squadCost(players),
	)
}

// squadCost sums presented prices so the total matches what users see per player.
func squadCost(players []types.Player) float64 {
	total := 0.0
	for _, p := range players {
		total += p.Price()
	}
	return total
}

func formatMillions(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
