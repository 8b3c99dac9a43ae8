package cmd

import (
	"fmt"

	"market-provisioner/core/config"
	"market-provisioner/core/logger"
	"market-provisioner/core/storage"
	"market-provisioner/feature/provision"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// provisionCmd represents the provision command
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Wait for the storage backend and provision the market tree",
	Long: `Launches the storage server (when configured), polls until it accepts
authenticated requests, then creates the base bucket, per-market segments and
strategies sub-paths, and uploads every market-data and strategy artifact
with its descriptive tags.

The command exits non-zero only when the document cannot be loaded or the
backend never becomes reachable. Per-object upload failures are recorded in
the end-of-run summary and tagging failures are ignored, so re-running
against an already provisioned backend succeeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(documentPath())
		if err != nil {
			return err
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()
		logg = logger.WithRunID(logg)

		// 3. Initialize Storage
		store, err := storage.NewClient(cfg.StorageClient())
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		// 4. Run the provisioning state machine
		svc := provision.NewService(cfg, store, logg)
		result, err := svc.Run(cmd.Context())
		if err != nil {
			return err
		}

		if failures := len(result.UploadFailures()); failures > 0 {
			logg.Warn("run completed with recorded failures", zap.Int("upload_failures", failures))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(provisionCmd)
}
