package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/sim"
)

var errNoDuration = errors.New("headless run needs a positive duration")

func runCmd(configPath *string) *cobra.Command {
	var (
		realtime bool
		duration time.Duration
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario and log agent snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveScenarioPath(*configPath)
			sc, err := loadScenario(path)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("duration") {
				sc.Duration = duration
			}
			if cmd.Flags().Changed("seed") {
				sc.Seed = seed
			}

			setupLogging(sc.LogLevel)
			slog.Info("nightfall starting",
				"scenario", path,
				"log_level", sc.LogLevel,
				"realtime", realtime)

			s, err := sim.New(sc)
			if err != nil {
				return fmt.Errorf("building simulation: %w", err)
			}

			if realtime {
				return runRealtime(cmd.Context(), s, sc.ReportInterval)
			}
			return runHeadless(cmd.Context(), s, sc)
		},
	}

	cmd.Flags().BoolVar(&realtime, "realtime", false, "tick on the wall clock instead of as fast as possible")
	cmd.Flags().DurationVar(&duration, "duration", 0, "simulated time to run (overrides the scenario)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (overrides the scenario, 0 = random)")
	return cmd
}

// runHeadless steps the simulation with a fixed dt, logging snapshots every
// report interval of simulated time.
func runHeadless(ctx context.Context, s *sim.Simulation, sc config.Scenario) error {
	if sc.Duration <= 0 {
		return errNoDuration
	}

	chunk := sc.ReportInterval
	if chunk <= 0 {
		chunk = sc.Duration
	}

	for remaining := sc.Duration; remaining > 0; remaining -= chunk {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.RunFor(min(chunk, remaining))
		s.LogSnapshots()
	}

	slog.Info("run complete",
		"clock", s.Clock(),
		"ticks", s.Ticks())
	return nil
}

// runRealtime runs the tick loop and a snapshot reporter side by side until
// the scenario ends or ctx is canceled.
func runRealtime(ctx context.Context, s *sim.Simulation, report time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	simCtx, stop := context.WithCancel(ctx)
	defer stop()

	g.Go(func() error {
		defer stop()
		if err := s.Run(simCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	if report > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(report)
			defer ticker.Stop()

			for {
				select {
				case <-simCtx.Done():
					s.LogSnapshots()
					return nil
				case <-ticker.C:
					s.LogSnapshots()
				}
			}
		})
	}

	return g.Wait()
}
