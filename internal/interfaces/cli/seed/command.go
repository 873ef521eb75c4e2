package seed

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civictrack/civictrack/internal/infrastructure/directory"
	"github.com/civictrack/civictrack/internal/infrastructure/persistence/seeds"
	"github.com/civictrack/civictrack/internal/infrastructure/repository"
	"github.com/civictrack/civictrack/internal/interfaces/cli/clienv"
)

var (
	env        string
	configPath string
	file       string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load officers from the reference data file",
		Long: `Upsert the officers listed in the reference data file. Officers already in
the database keep their current assignment count.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Reference data file (default: reference_data.path from config)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	e, err := clienv.LoadWithDatabase(clienv.ResolveEnv(env), configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	path := file
	if path == "" {
		path = e.Config.ReferenceData.Path
	}
	if path == "" {
		return fmt.Errorf("no reference data file: pass --file or set reference_data.path")
	}

	data, err := directory.Load(path, e.Logger)
	if err != nil {
		return err
	}

	count, err := seeds.SeedOfficers(cmd.Context(), repository.NewOfficerRepository(e.DB), data.Officers, e.Logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d officers from %s\n", count, path)
	return nil
}
