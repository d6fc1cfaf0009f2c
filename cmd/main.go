package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dns-ledger-sim/config"
	"dns-ledger-sim/logger"
)

var (
	configPath string
	cfg        *config.Config
)

func main() {
	root := &cobra.Command{
		Use:          "dnsledger",
		Short:        "DNS ledger voting simulation",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")
	root.PersistentFlags().String("log.level", "info", "debug, info, warn, error")
	root.PersistentFlags().String("log.app_log_file", "", "Log file (stderr when empty)")

	root.AddCommand(newAuthorityCmd(), newSimulatorCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig binds the command's flags over the config file and starts the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath, cmd.Flags().Changed("config"), cmd.Flags())
	if err != nil {
		return err
	}
	if err := logger.InitLogger(cfg.Log.AppLogFile, cfg.Log.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}
