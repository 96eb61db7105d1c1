package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/scorecard/backend/internal/app"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
	"github.com/zhouzirui/scorecard/backend/internal/service/playback"
)

type replayFlags struct {
	scorer   string
	all      bool
	format   string
	verbose  bool
	parallel int
}

// replayResult is the outcome of replaying one scenario.
type replayResult struct {
	Scenario string                         `json:"scenario"`
	Scorer   string                         `json:"scorer"`
	Steps    []playback.Step                `json:"steps,omitempty"`
	Average  metrics.Record                 `json:"average"`
	Grades   map[metrics.Name]metrics.Grade `json:"grades"`
	Fallback int                            `json:"fallbackEvaluations"`
}

func newReplayCommand(opts *options) *cobra.Command {
	flags := &replayFlags{}
	cmd := &cobra.Command{
		Use:   "replay [scenario...]",
		Short: "Replay scenarios offline and print their scores",
		Long: `Replay feeds every line of each scenario through the aggregator without
waiting between lines. Timestamps are synthesised from PLAYBACK_INTERVAL so
responseSpeed matches a real-time playback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.format != "table" && flags.format != "json" {
				return fmt.Errorf("unsupported format %q: must be table or json", flags.format)
			}
			services := app.Build(cmd.Context(), opts.cfg, opts.logger)

			ids := args
			if flags.all {
				ids = ids[:0]
				for _, sc := range services.Scenarios.List() {
					ids = append(ids, sc.ID)
				}
			}
			if len(ids) == 0 {
				return fmt.Errorf("name at least one scenario or pass --all")
			}

			results, err := replayAll(cmd.Context(), services, ids, flags)
			if err != nil {
				return err
			}

			if flags.format == "json" {
				return printJSON(cmd.OutOrStdout(), results)
			}
			printTable(cmd.OutOrStdout(), results, flags.verbose)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.scorer, "scorer", "", "Scoring backend (defaults to SCORER_DEFAULT)")
	cmd.Flags().BoolVar(&flags.all, "all", false, "Replay every built-in scenario")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Print the gates of every step")
	cmd.Flags().IntVar(&flags.parallel, "parallel", 4, "Scenarios replayed at once")
	return cmd
}

// replayAll replays each scenario in its own session. Results keep the
// order of ids.
func replayAll(ctx context.Context, services *app.Services, ids []string, flags *replayFlags) ([]replayResult, error) {
	results := make([]replayResult, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	if flags.parallel > 0 {
		g.SetLimit(flags.parallel)
	}
	start := time.Now().UTC()

	for i, id := range ids {
		g.Go(func() error {
			res, err := replayOne(ctx, services, id, flags, start)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func replayOne(ctx context.Context, services *app.Services, scenarioID string, flags *replayFlags, start time.Time) (replayResult, error) {
	session, err := services.Chats.CreateSession(ctx, flags.scorer, scenarioID)
	if err != nil {
		return replayResult{}, err
	}
	defer func() { _ = services.Monitor.Forget(context.WithoutCancel(ctx), session.ID) }()

	res := replayResult{Scenario: scenarioID}
	err = services.Player.Replay(ctx, session.ID, scenarioID, start, func(step playback.Step) {
		if step.Evaluation == nil {
			return
		}
		res.Scorer = step.Evaluation.Scorer
		if step.Evaluation.Fallback {
			res.Fallback++
		}
		if flags.verbose {
			res.Steps = append(res.Steps, step)
		}
	})
	if err != nil {
		return replayResult{}, err
	}

	history, err := services.Monitor.History(ctx, session.ID)
	if err != nil {
		return replayResult{}, err
	}
	if avg, ok := history.Average(); ok {
		res.Average = avg
		res.Grades = metrics.Grades(avg)
	}
	return res, nil
}
