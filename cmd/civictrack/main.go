package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/civictrack/civictrack/internal/interfaces/cli/migrate"
	"github.com/civictrack/civictrack/internal/interfaces/cli/seed"
	"github.com/civictrack/civictrack/internal/interfaces/cli/server"
	"github.com/civictrack/civictrack/internal/interfaces/cli/sweep"
	"github.com/civictrack/civictrack/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "civictrack",
		Short:   "CivicTrack - municipal complaint tracking",
		Long:    `CivicTrack accepts citizen complaints, routes them to department officers, and escalates the ones left pending.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sweep.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
