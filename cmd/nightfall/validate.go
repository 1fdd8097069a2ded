package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/sim"
)

func validateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a scenario file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveScenarioPath(*configPath)
			sc, err := loadScenario(path)
			if err != nil {
				return err
			}
			setupLogging("warn")

			// Building catches what static validation cannot: doors on
			// non-door cells, bad glyphs.
			if _, err := sim.New(sc); err != nil {
				return fmt.Errorf("scenario %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scenario at %s is valid.\n", path)
			return nil
		},
	}
}

func scenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Print the built-in demo scenario as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.DefaultScenario().Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
