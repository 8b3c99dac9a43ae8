package provision

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"market-provisioner/core/config"
	"market-provisioner/core/storage"

	"go.uber.org/zap"
)

// Service orchestrates one provisioning run: launch the backend, wait for
// readiness, build the hierarchy, upload artifacts. A single run is strictly
// sequential; the only blocking point is the readiness poll.
type Service struct {
	cfg    *config.Config
	client storage.Client
	logger *zap.Logger

	poller  *Poller
	builder *Builder
	loader  *Loader

	state State

	// launch starts the storage server command detached. Injectable for
	// tests; defaults to exec via the shell so compose-style command lines
	// work unmodified.
	launch func(command string) error
}

// NewService wires the poller, builder and loader over one client.
func NewService(cfg *config.Config, client storage.Client, logger *zap.Logger) *Service {
	pollerCfg := PollerConfig{
		MaxAttempts: cfg.Provision.MaxReadyChecks,
		Delay:       time.Duration(cfg.Provision.ReadyCheckDelaySeconds) * time.Second,
	}
	return &Service{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		poller:  NewPoller(client, pollerCfg, logger),
		builder: NewBuilder(client, logger),
		loader:  NewLoader(client, logger),
		state:   StateStarting,
		launch:  launchDetached,
	}
}

// State returns the orchestrator's current phase.
func (s *Service) State() State {
	return s.state
}

// Run executes the full provisioning state machine. It returns
// ErrReadinessTimeout when the backend never became reachable (the caller
// exits non-zero; the launched backend is deliberately left running), a
// hierarchy error when the base bucket could not be created, and otherwise a
// Result accumulating every per-object outcome. Per-object upload failures
// never abort the traversal: one market's bad file must not block another
// market's provisioning.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	s.state = StateStarting
	s.logger.Info("provisioning run starting", zap.Stringer("state", s.state))
	if command := s.cfg.Provision.ServerCommand; command != "" {
		if err := s.launch(command); err != nil {
			return nil, fmt.Errorf("launch storage server: %w", err)
		}
		s.logger.Info("launched storage server", zap.String("command", command))
	}

	s.transition(StateWaitingForStore)
	if err := s.poller.Wait(ctx); err != nil {
		s.transition(StateTimeout)
		return nil, err
	}
	s.transition(StateReady)

	s.transition(StateProvisioning)
	result, err := s.provision(ctx)
	if err != nil {
		return nil, err
	}

	s.transition(StateComplete)
	s.summarize(result)
	return result, nil
}

// provision walks the market tree in document order. Base bucket creation
// strictly precedes any market segment.
func (s *Service) provision(ctx context.Context) (*Result, error) {
	base := s.cfg.Storage.BaseBucket
	if err := s.builder.EnsureBase(ctx, base); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, market := range s.cfg.Storage.Markets {
		if err := s.builder.EnsureMarket(ctx, base, market); err != nil {
			// The market's segments are missing, so its uploads cannot
			// land; skip them but keep provisioning the other markets.
			s.logger.Error("market hierarchy failed, skipping its uploads",
				zap.String("market", market.Name),
				zap.Error(err),
			)
			result.HierarchyFailures = append(result.HierarchyFailures, market.Name)
			continue
		}

		dataDest := market.Name + "/" + market.DataFile
		result.Objects = append(result.Objects,
			s.loader.Upload(ctx, base, market.DataPath, dataDest, MarketDataTags(s.cfg.Provision)))

		for _, strategy := range market.Strategies {
			dest := market.Name + "/" + StrategiesSegment + "/" + strategy.File
			result.Objects = append(result.Objects,
				s.loader.Upload(ctx, base, strategy.SourcePath, dest, StrategyTags(strategy)))
		}
	}
	return result, nil
}

func (s *Service) transition(next State) {
	s.logger.Info("state transition",
		zap.Stringer("from", s.state),
		zap.Stringer("to", next),
	)
	s.state = next
}

func (s *Service) summarize(result *Result) {
	fields := []zap.Field{
		zap.Int("uploaded", result.Uploaded()),
		zap.Int("upload_failures", len(result.UploadFailures())),
		zap.Int("tag_failures", len(result.TagFailures())),
	}
	if len(result.HierarchyFailures) > 0 {
		fields = append(fields, zap.Strings("skipped_markets", result.HierarchyFailures))
	}
	s.logger.Info("provisioning complete", fields...)

	for _, failed := range result.UploadFailures() {
		s.logger.Error("upload failed during run", zap.String("dest", failed.Dest), zap.Error(failed.Err))
	}
	for _, failed := range result.TagFailures() {
		s.logger.Warn("tags not attached", zap.String("dest", failed.Dest), zap.Error(failed.Err))
	}
}

// launchDetached starts the command through the shell and does not wait on
// it. The process outlives the provisioner; on readiness timeout it is left
// running but unprovisioned.
func launchDetached(command string) error {
	cmd := exec.Command("/bin/sh", "-c", command)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child in the background so a short-lived server command does
	// not linger as a zombie while we poll.
	go func() { _ = cmd.Wait() }()
	return nil
}
