package cmd

import (
	"fmt"

	"market-provisioner/core/config"
	"market-provisioner/core/logger"
	"market-provisioner/core/storage"
	"market-provisioner/feature/verify"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a provisioned backend against the provisioning document",
	Long: `Walks the configured market tree read-only and reports every bucket,
segment, or object the platform's consumers would fail to find. Useful after
a provisioning run or before pointing the analytics services at a backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(documentPath())
		if err != nil {
			return err
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()

		store, err := storage.NewClient(cfg.StorageClient())
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		report, err := verify.NewService(store, logg).Check(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		if report.OK() {
			logg.Info("layout complete", zap.String("base_bucket", cfg.Storage.BaseBucket))
		} else {
			logg.Warn("layout incomplete", zap.Strings("missing", report.Missing))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
}
