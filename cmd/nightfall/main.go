package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/config"
)

const (
	DefaultScenarioPath = "config/scenario.yaml"
	ScenarioPathEnv     = "NIGHTFALL_SCENARIO"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "nightfall",
		Short:         "Headless simulator for perception-driven NPC behavior",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		fmt.Sprintf("scenario file (default $%s or %s)", ScenarioPathEnv, DefaultScenarioPath))

	cmd.AddCommand(runCmd(&configPath))
	cmd.AddCommand(validateCmd(&configPath))
	cmd.AddCommand(scenarioCmd())
	return cmd
}

// resolveScenarioPath picks the flag, then the environment, then the default.
func resolveScenarioPath(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(ScenarioPathEnv); p != "" {
		return p
	}
	return DefaultScenarioPath
}

func loadScenario(path string) (config.Scenario, error) {
	sc, err := config.LoadScenario(path)
	if err != nil {
		return sc, fmt.Errorf("loading scenario: %w", err)
	}
	return sc, nil
}

// setupLogging configures slog and the AI debug gate from the scenario's
// log level.
func setupLogging(level string) {
	logLevel := parseLogLevel(level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Enable AI debug logging if log level is debug
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
