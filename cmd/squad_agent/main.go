// Package main provides the entry point for the World Cup squad builder CLI and HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "squad_agent",
	Short: "World Cup squad builder",
	Long: "squad_agent builds 23-player World Cup squads from a player catalog. " +
		"A language model picks the squad under positional and budget constraints, and the players are placed in a formation.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $SQUAD_CONFIG)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
