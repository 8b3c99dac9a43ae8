package provision

import (
	"bytes"
	"context"
	"fmt"

	"market-provisioner/core/config"
	"market-provisioner/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StrategiesSegment is the sub-path under each market that holds strategy
// artifacts. The analytics and dashboard services resolve strategies at
// <base>/<market>/strategies, so the name is part of the platform contract.
const StrategiesSegment = "strategies"

// Builder materializes the bucket/segment hierarchy described by the
// provisioning document.
type Builder struct {
	client storage.Client
	logger *zap.Logger
}

// NewBuilder creates a hierarchy builder over the given client.
func NewBuilder(client storage.Client, logger *zap.Logger) *Builder {
	return &Builder{client: client, logger: logger}
}

// EnsureBase creates the base bucket. Creation is requested unconditionally;
// an "already exists" response from the backend is a no-op success so re-runs
// against a provisioned backend pass. Any other failure is returned: a base
// bucket that cannot be created means nothing below it can be provisioned.
func (b *Builder) EnsureBase(ctx context.Context, bucket string) error {
	err := b.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	if err != nil {
		if bucketExistsCode(err) {
			b.logger.Debug("base bucket already exists", zap.String("bucket", bucket))
			return nil
		}
		return fmt.Errorf("create base bucket %s: %w", bucket, err)
	}
	b.logger.Info("created base bucket", zap.String("bucket", bucket))
	return nil
}

// EnsureMarket creates the market's bucket-path segment and its strategies
// sub-path under the base bucket. Segments are zero-byte "directory" marker
// objects, so repeating the operation overwrites the marker and is naturally
// idempotent.
func (b *Builder) EnsureMarket(ctx context.Context, bucket string, market config.Market) error {
	for _, segment := range []string{
		market.Name + "/",
		market.Name + "/" + StrategiesSegment + "/",
	} {
		_, err := b.client.PutObject(ctx, bucket, segment, bytes.NewReader(nil), 0, minio.PutObjectOptions{})
		if err != nil {
			return fmt.Errorf("create segment %s/%s: %w", bucket, segment, err)
		}
		b.logger.Info("ensured segment",
			zap.String("bucket", bucket),
			zap.String("segment", segment),
		)
	}
	return nil
}

// bucketExistsCode reports whether err is the backend telling us the bucket
// is already there. Only these two codes are recovered; anything else (e.g.
// AccessDenied) would silently leave an incomplete hierarchy if swallowed.
func bucketExistsCode(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "BucketAlreadyOwnedByYou" || resp.Code == "BucketAlreadyExists"
}
