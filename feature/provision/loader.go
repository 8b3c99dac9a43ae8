package provision

import (
	"context"
	"fmt"
	"os"
	"strings"

	"market-provisioner/core/config"
	"market-provisioner/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/tags"
	"go.uber.org/zap"
)

// tagDelimiters are the characters of the backend's tag wire syntax
// (key=value pairs joined by &). Values containing them cannot be serialized.
const tagDelimiters = "&="

// Loader copies artifacts into the storage backend and attaches their tag
// sets. Copy and tagging are independent operations: a failed copy is fatal
// for that object, a failed tagging call is logged and ignored so re-runs
// against already-tagged objects succeed.
type Loader struct {
	client storage.Client
	logger *zap.Logger
}

// NewLoader creates an object loader over the given client.
func NewLoader(client storage.Client, logger *zap.Logger) *Loader {
	return &Loader{client: client, logger: logger}
}

// Upload copies the source file to bucket/dest and attaches tagValues to the
// uploaded object. The returned record is complete in every case; inspect
// Uploaded/Tagged/Err rather than an error return, since the caller's policy
// is to record and continue.
func (l *Loader) Upload(ctx context.Context, bucket, sourcePath, dest string, tagValues map[string]string) ProvisionedObject {
	record := ProvisionedObject{Dest: dest, Tags: tagValues}

	// Confirm the source is readable before touching the backend, so the
	// diagnostic names the local file rather than a backend write error.
	if _, err := os.Stat(sourcePath); err != nil {
		record.Err = &UploadError{Dest: dest, Err: fmt.Errorf("source %s: %w", sourcePath, err)}
		l.logger.Error("upload failed", zap.String("dest", dest), zap.Error(record.Err))
		return record
	}

	if _, err := l.client.FPutObject(ctx, bucket, dest, sourcePath, minio.PutObjectOptions{}); err != nil {
		record.Err = &UploadError{Dest: dest, Err: err}
		l.logger.Error("upload failed", zap.String("dest", dest), zap.Error(record.Err))
		return record
	}
	record.Uploaded = true
	l.logger.Info("uploaded object",
		zap.String("bucket", bucket),
		zap.String("dest", dest),
		zap.String("source", sourcePath),
	)

	if err := l.tag(ctx, bucket, dest, tagValues); err != nil {
		// Non-fatal: previously tagged objects reject re-tagging on some
		// backends and must not abort a re-run.
		record.Err = err
		l.logger.Warn("tagging failed, continuing",
			zap.String("dest", dest),
			zap.Error(err),
		)
		return record
	}
	record.Tagged = true

	return record
}

func (l *Loader) tag(ctx context.Context, bucket, dest string, tagValues map[string]string) error {
	if len(tagValues) == 0 {
		return nil
	}
	for key, value := range tagValues {
		if strings.ContainsAny(value, tagDelimiters) {
			return fmt.Errorf("tag %s: value %q contains tag delimiter", key, value)
		}
	}
	objectTags, err := tags.NewTags(tagValues, true)
	if err != nil {
		return fmt.Errorf("build tag set: %w", err)
	}
	if err := l.client.PutObjectTagging(ctx, bucket, dest, objectTags, minio.PutObjectTaggingOptions{}); err != nil {
		return fmt.Errorf("set tags on %s: %w", dest, err)
	}
	return nil
}

// MarketDataTags builds the tag set for a market data object.
func MarketDataTags(cfg config.Provision) map[string]string {
	return map[string]string{
		"project": cfg.ProjectTag,
		"version": cfg.VersionTag,
	}
}

// StrategyTags builds the tag set for a strategy object, verbatim from the
// strategy record.
func StrategyTags(s config.Strategy) map[string]string {
	return map[string]string{
		"strategy_type":       s.Type,
		"version_description": s.Description,
		"pair_finding":        s.PairFinding,
	}
}
