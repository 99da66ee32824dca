package main

import (
	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "inspection-api",
	Short: "Inspection availability and assignment service",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)

	// configuration comes from the environment; the flag is accepted for
	// deployments that still pass it
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
}

// setup reads the configuration and installs the global zap logger. The
// returned func restores the previous logger.
func setup() (*config.Config, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}

	logger, err := log.InitLog(cfg.Service.LogLevel, cfg.Service.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(logger)

	return cfg, func() {
		_ = logger.Sync()
		undo()
	}, nil
}
