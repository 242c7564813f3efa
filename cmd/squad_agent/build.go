package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/squad-builder/internal/observability"
	"github.com/jonathan/squad-builder/internal/pipeline"
	"github.com/jonathan/squad-builder/internal/schemas"
	"github.com/jonathan/squad-builder/internal/types"
)

var (
	buildPrompt    string
	buildChat      bool
	buildFormation string
	buildUpStyle   string
	buildDefensive string
	buildBudget    float64
	buildFormat    string
	buildSuggest   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build one squad and print it",
	Long: `Build a squad from a prompt and explicit tactics, or with --chat let the model infer
the tactics from the prompt. A budget greater than zero enables the budget constraint.`,
	Example: `  squad_agent build --prompt "pacy wingers, solid keeper" --formation 4-3-3 --budget 400
  squad_agent build --chat --prompt "park the bus with a 3-5-2 under 150M" --format json`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildPrompt, "prompt", "p", "", "Free-text description of the squad")
	buildCmd.Flags().BoolVar(&buildChat, "chat", false, "Infer formation, styles and budget from the prompt")
	buildCmd.Flags().StringVar(&buildFormation, "formation", types.DefaultFormation, "Formation, e.g. 4-3-3")
	buildCmd.Flags().StringVar(&buildUpStyle, "build-up", types.DefaultStyle, "Build-up style: "+strings.Join(types.BuildUpStyles, ", "))
	buildCmd.Flags().StringVar(&buildDefensive, "defensive", types.DefaultStyle, "Defensive approach: "+strings.Join(types.DefensiveApproaches, ", "))
	buildCmd.Flags().Float64Var(&buildBudget, "budget", 0, "Budget in EUR millions (0 disables)")
	buildCmd.Flags().StringVarP(&buildFormat, "format", "f", "text", "Output format: text, json or yaml")
	buildCmd.Flags().StringVar(&buildSuggest, "suggest", "", "Also print replacements for this position, e.g. GK")
	rootCmd.AddCommand(buildCmd)
}

// buildRequest assembles the request from flags.
func buildRequest() types.BuildSquadRequest {
	return types.BuildSquadRequest{
		Prompt:            buildPrompt,
		Formation:         buildFormation,
		BuildUpStyle:      buildUpStyle,
		DefensiveApproach: buildDefensive,
		Budget:            buildBudget,
		BudgetEnabled:     buildBudget > 0,
	}
}

func runBuild(cmd *cobra.Command, _ []string) error {
	switch buildFormat {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", buildFormat)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	engine, err := a.engine(cmd.Context(), nil)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	var progress pipeline.ProgressCallback
	if buildFormat == "text" {
		progress = observability.NewPrinter(os.Stderr).PrintProgress
	}

	var result types.SquadResult
	if buildChat {
		req := types.ChatRequest{Message: buildPrompt}
		if err := req.Validate(); err != nil {
			return fmt.Errorf("invalid request: %w", err)
		}
		result, err = engine.Chat(cmd.Context(), req, progress)
	} else {
		req := buildRequest()
		if err := req.Validate(); err != nil {
			return fmt.Errorf("invalid request: %w", err)
		}
		result, err = engine.Build(cmd.Context(), req, progress)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeResult(out, buildFormat, result); err != nil {
		return err
	}

	if buildSuggest != "" {
		reps, err := engine.ReplacePlayer(types.ReplaceRequest{
			Position:        strings.ToUpper(buildSuggest),
			CurrentSquadIDs: squadIDs(result),
		})
		if err != nil {
			return err
		}
		observability.NewPrinter(out).PrintReplacements(strings.ToUpper(buildSuggest), reps)
	}
	return nil
}

// writeResult renders a squad in the requested format. JSON output is checked
// against the published result schema before it is written.
func writeResult(w io.Writer, format string, result types.SquadResult) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		if err := schemas.Validate(schemas.SquadResult, data); err != nil {
			return fmt.Errorf("result does not match schema: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return enc.Close()
	default:
		observability.NewPrinter(w).PrintSquad(result)
		return nil
	}
}

func squadIDs(r types.SquadResult) []string {
	players := r.Players()
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID()
	}
	return ids
}
