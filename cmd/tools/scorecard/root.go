package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/scorecard/backend/internal/config"
	"github.com/zhouzirui/scorecard/backend/internal/logging"
)

// options are shared by every subcommand.
type options struct {
	debug  bool
	cfg    *config.Config
	logger *logrus.Logger
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "scorecard",
		Short: "Replay scripted support conversations through the scoring pipeline",
		Long: `scorecard replays the built-in customer-service scenarios offline and
prints the metrics each scoring backend assigns to the agent.

Configuration is read from the environment (and .env when present), the same
way the API server reads it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if opts.debug {
				level = "debug"
			}
			opts.cfg = cfg
			opts.logger = logging.New(logging.Options{Level: level, Format: cfg.Log.Format, Output: cmd.ErrOrStderr()})
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newScenariosCommand(opts))
	cmd.AddCommand(newReplayCommand(opts))
	return cmd
}
