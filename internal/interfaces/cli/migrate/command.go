package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civictrack/civictrack/internal/infrastructure/migration"
	"github.com/civictrack/civictrack/internal/interfaces/cli/clienv"
)

var (
	env        string
	configPath string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply pending scripts, roll back, and show status.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func initEnv() (*clienv.Env, *migration.GooseStrategy, error) {
	e, err := clienv.LoadWithDatabase(clienv.ResolveEnv(env), configPath)
	if err != nil {
		return nil, nil, err
	}

	strategy, err := migration.NewGooseStrategy(e.Config.Database.Driver, e.Logger)
	if err != nil {
		e.Close()
		return nil, nil, err
	}

	return e, strategy, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	e, strategy, err := initEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	e.Logger.Infow("running up migrations", "environment", e.Name)

	if err := strategy.Migrate(e.DB); err != nil {
		e.Logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	e.Logger.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}

	e, strategy, err := initEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	e.Logger.Infow("running down migrations", "environment", e.Name, "steps", steps)

	if err := strategy.MigrateDown(e.DB, steps); err != nil {
		e.Logger.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	e.Logger.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, strategy, err := initEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	e.Logger.Infow("checking migration status", "environment", e.Name)

	version, err := strategy.GetVersion(e.DB)
	if err != nil {
		e.Logger.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", e.Name)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := strategy.Status(e.DB); err != nil {
		e.Logger.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	return nil
}
