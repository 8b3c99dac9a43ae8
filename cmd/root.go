package cmd

import (
	"fmt"
	"os"

	"market-provisioner/core/config"
	"market-provisioner/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "market-provisioner",
	Short: "Market Data Storage Provisioner",
	Long: `Market Provisioner bootstraps the object-storage backend of the
market-data analytics platform. It waits for the storage backend to accept
authenticated requests, then materializes the bucket hierarchy and uploads
the market-data and strategy artifacts described by the provisioning
document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			// Log the error with structured logger (Console encoding will make it pretty)
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"provisioning document path (default $"+config.EnvPath+" or "+config.DefaultPath+")")
}

// documentPath resolves the provisioning document location: the --config
// flag wins, then PROVISIONER_CONFIG, then the default path.
func documentPath() string {
	if configPath != "" {
		return configPath
	}
	return config.Path()
}
