package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	httpRouter "github.com/civictrack/civictrack/internal/interfaces/http"
	"github.com/civictrack/civictrack/internal/interfaces/cli/clienv"
)

var (
	env        string
	configPath string
	timeout    time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one escalation sweep",
		Long: `Re-evaluate every open complaint once and escalate the ones pending past
the configured limit. Uses the same lock as the scheduled sweep, so it is safe
to run next to a live server.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Maximum duration of the sweep")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	e, err := clienv.LoadWithDatabase(clienv.ResolveEnv(env), configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	// The one-shot run must not start the periodic job.
	e.Config.Escalation.SchedulerEnabled = false

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	container, err := httpRouter.NewContainer(ctx, e.DB, e.Config, e.Logger)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer container.Shutdown()

	result, err := container.EscalationSweep().Execute(ctx)
	if err != nil {
		e.Logger.Errorw("escalation sweep failed", "error", err)
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
