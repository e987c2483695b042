package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/weekplan/config"
	"github.com/kilianp07/weekplan/core/optimizer"
	"github.com/kilianp07/weekplan/core/prediction"
	"github.com/kilianp07/weekplan/core/scheduler"
	"github.com/kilianp07/weekplan/core/solver"
	"github.com/kilianp07/weekplan/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "weekplan",
	Short:        "Weekly task planner",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads cfgPath. A missing default file yields the built-in
// configuration; a missing explicit file is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newPlanner builds the forecaster, solver and optimizer selected by cfg.
func newPlanner(cfg *config.Config) (*scheduler.Planner, error) {
	fc, err := prediction.NewRegistry().Create(cfg.Forecast)
	if err != nil {
		return nil, fmt.Errorf("forecaster: %w", err)
	}
	s, err := solver.NewRegistry().Create(cfg.Solver)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	opt := optimizer.New(s, cfg.Optimizer, logger.New("optimizer"))
	return scheduler.NewPlanner(fc, opt, logger.New("planner")), nil
}
