package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/squad-builder/internal/observability"
	"github.com/jonathan/squad-builder/internal/pipeline"
	"github.com/jonathan/squad-builder/internal/ranking"
)

var (
	searchPosition string
	searchQuery    string
	searchLimit    int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog by position and name, club or nation",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchPosition, "position", "", "Slot role, e.g. LB or GK")
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "Text matched against name, club and nation")
	searchCmd.Flags().IntVar(&searchLimit, "limit", pipeline.DefaultSearchLimit, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	loader, err := a.catalogLoader(cmd.Context())
	if err != nil {
		return err
	}
	players, err := loader.Load(cmd.Context())
	if err != nil {
		return err
	}

	limit := min(max(searchLimit, 1), pipeline.MaxSearchLimit)
	found := ranking.SearchCatalog(players, searchPosition, searchQuery, limit)
	observability.NewPrinter(cmd.OutOrStdout()).PrintPlayers(found)
	return nil
}
