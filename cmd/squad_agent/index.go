package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the player catalog and persist the search index",
	Long: `Load the configured catalog, embed every player document and store the vectors in
the SQLite index file, so the server can start without re-embedding.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	players, err := a.catalogLoader(ctx)
	if err != nil {
		return err
	}
	catalogPlayers, err := players.Load(ctx)
	if err != nil {
		return err
	}

	client, err := a.llmClient(ctx)
	if err != nil {
		return err
	}
	index, err := a.vectorIndex(ctx, client.Embedder())
	if err != nil {
		return err
	}
	if err := index.Index(ctx, catalogPlayers); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d players into %s\n", index.Len(), a.cfg.Search.IndexPath)
	return nil
}
