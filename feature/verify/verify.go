package verify

import (
	"context"
	"fmt"

	"market-provisioner/core/config"
	"market-provisioner/core/storage"
	"market-provisioner/feature/provision"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Service checks that the layout the platform's consumers expect is present
// in the storage backend. It is strictly read-only.
type Service struct {
	client storage.Client
	logger *zap.Logger
}

// NewService creates a verification service over the given client.
func NewService(client storage.Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Report lists the layout entries that are missing from the backend.
type Report struct {
	Missing []string
}

// OK reports whether the full expected layout is present.
func (r *Report) OK() bool {
	return len(r.Missing) == 0
}

// Check walks the configured market tree and reports every missing bucket,
// segment, or object. A missing base bucket short-circuits: nothing below it
// can exist.
func (s *Service) Check(ctx context.Context, cfg *config.Config) (*Report, error) {
	report := &Report{}
	base := cfg.Storage.BaseBucket

	exists, err := s.client.BucketExists(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("check base bucket %s: %w", base, err)
	}
	if !exists {
		report.Missing = append(report.Missing, base)
		return report, nil
	}

	for _, market := range cfg.Storage.Markets {
		s.checkPrefix(ctx, base, market.Name+"/", report)
		s.checkPrefix(ctx, base, market.Name+"/"+provision.StrategiesSegment+"/", report)
		s.checkObject(ctx, base, market.Name+"/"+market.DataFile, report)
		for _, strategy := range market.Strategies {
			s.checkObject(ctx, base, market.Name+"/"+provision.StrategiesSegment+"/"+strategy.File, report)
		}
	}

	return report, nil
}

// checkPrefix records the prefix as missing when no object lives under it.
func (s *Service) checkPrefix(ctx context.Context, bucket, prefix string, report *Report) {
	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
		MaxKeys:   1,
	}

	for range s.client.ListObjects(ctx, bucket, opts) {
		return
	}

	s.logger.Warn("missing segment", zap.String("bucket", bucket), zap.String("prefix", prefix))
	report.Missing = append(report.Missing, bucket+"/"+prefix)
}

// checkObject records the object as missing when no key matches it exactly.
func (s *Service) checkObject(ctx context.Context, bucket, key string, report *Report) {
	opts := minio.ListObjectsOptions{
		Prefix:    key,
		Recursive: true,
	}

	for info := range s.client.ListObjects(ctx, bucket, opts) {
		if info.Key == key {
			return
		}
	}

	s.logger.Warn("missing object", zap.String("bucket", bucket), zap.String("key", key))
	report.Missing = append(report.Missing, bucket+"/"+key)
}
