package provision

import (
	"context"
	"errors"
	"time"

	"market-provisioner/core/storage"

	"go.uber.org/zap"
)

// ErrReadinessTimeout indicates the backend never accepted an authenticated
// handshake within the configured attempt budget.
var ErrReadinessTimeout = errors.New("storage backend readiness timeout")

// PollerConfig holds the bounded-retry parameters.
type PollerConfig struct {
	// MaxAttempts is the hard cap on handshake attempts.
	MaxAttempts int
	// Delay is the fixed wait between attempts. No backoff: the original
	// deployment polls every 2s with a 30-attempt cap.
	Delay time.Duration
}

// DefaultPollerConfig returns the production poll budget (60s worst case).
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		MaxAttempts: 30,
		Delay:       2 * time.Second,
	}
}

// Poller repeatedly attempts an authenticated handshake against the storage
// backend until it succeeds or the attempt budget is exhausted.
type Poller struct {
	client storage.Client
	cfg    PollerConfig
	logger *zap.Logger

	// sleep is injectable so tests can simulate N failed attempts without
	// real delay.
	sleep func(time.Duration)
}

// NewPoller creates a readiness poller over the given client.
func NewPoller(client storage.Client, cfg PollerConfig, logger *zap.Logger) *Poller {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultPollerConfig().MaxAttempts
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultPollerConfig().Delay
	}
	return &Poller{
		client: client,
		cfg:    cfg,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Wait blocks until the backend accepts an authenticated request, returning
// ErrReadinessTimeout after MaxAttempts failures. The handshake is a
// ListBuckets call: it proves the credentials work without creating anything
// on the target.
func (p *Poller) Wait(ctx context.Context) error {
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		_, err := p.client.ListBuckets(ctx)
		if err == nil {
			p.logger.Info("storage backend ready", zap.Int("attempt", attempt))
			return nil
		}

		p.logger.Info("storage backend not ready yet",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.cfg.MaxAttempts),
			zap.Error(err),
		)

		if attempt < p.cfg.MaxAttempts {
			p.sleep(p.cfg.Delay)
		}
	}

	return ErrReadinessTimeout
}
