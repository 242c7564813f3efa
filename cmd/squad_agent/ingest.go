package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/squad-builder/internal/catalog"
	"github.com/jonathan/squad-builder/internal/types"
)

var (
	ingestCSV     string
	ingestVersion int
	ingestOut     string
	ingestDryRun  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Clean a raw player export and load it into PostgreSQL",
	Long: `Read a raw player CSV export, keep one game version, drop incomplete rows and
upsert the rest into the players table. --out also writes the cleaned CSV.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCSV, "csv", "", "Path to the raw CSV export (default catalog.csv_path)")
	ingestCmd.Flags().IntVar(&ingestVersion, "version", 0, "Game version to keep (default catalog.version)")
	ingestCmd.Flags().StringVar(&ingestOut, "out", "", "Write the cleaned catalog to this CSV path")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Clean and report without writing to the database")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	path := ingestCSV
	if path == "" {
		path = a.cfg.Catalog.CSVPath
	}
	version := ingestVersion
	if version == 0 {
		version = a.cfg.Catalog.Version
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	players, stats, err := catalog.ParseCSV(f, version)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	a.logger.Info("catalog cleaned",
		zap.String("path", path),
		zap.Int("version", version),
		zap.Int("rows", stats.Rows),
		zap.Int("other_version", stats.OtherVersion),
		zap.Int("incomplete", stats.Incomplete),
		zap.Int("unmappable", stats.Unmappable),
		zap.Int("kept", stats.Kept),
	)
	if len(players) == 0 {
		return &catalog.DataUnavailableError{Source: path, Cause: fmt.Errorf("no usable rows for version %d", version)}
	}

	if ingestOut != "" {
		if err := writeCleaned(ingestOut, players); err != nil {
			return err
		}
		a.logger.Info("cleaned catalog written", zap.String("path", ingestOut))
	}

	if ingestDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rows kept (dry run)\n", stats.Kept, stats.Rows)
		return nil
	}

	database, err := a.database(cmd.Context())
	if err != nil {
		return err
	}
	n, err := database.UpsertPlayers(cmd.Context(), version, players)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d players ingested for version %d\n", n, version)
	return nil
}

// writeCleaned writes players to path, creating or truncating the file.
func writeCleaned(path string, players []types.Player) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return catalog.WriteCSV(f, players)
}
