package provision

import (
	"context"
	"errors"
	"testing"

	"market-provisioner/core/config"
	"market-provisioner/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestBuilder_EnsureBase(t *testing.T) {
	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("MakeBucket", mock.Anything, "markets", mock.Anything).Return(nil)

		err := NewBuilder(client, zap.NewNop()).EnsureBase(context.Background(), "markets")
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("AlreadyOwned", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("MakeBucket", mock.Anything, "markets", mock.Anything).
			Return(minio.ErrorResponse{Code: "BucketAlreadyOwnedByYou"})

		err := NewBuilder(client, zap.NewNop()).EnsureBase(context.Background(), "markets")
		assert.NoError(t, err)
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("MakeBucket", mock.Anything, "markets", mock.Anything).
			Return(minio.ErrorResponse{Code: "BucketAlreadyExists"})

		err := NewBuilder(client, zap.NewNop()).EnsureBase(context.Background(), "markets")
		assert.NoError(t, err)
	})

	t.Run("AccessDeniedIsNotSwallowed", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("MakeBucket", mock.Anything, "markets", mock.Anything).
			Return(minio.ErrorResponse{Code: "AccessDenied"})

		err := NewBuilder(client, zap.NewNop()).EnsureBase(context.Background(), "markets")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "markets")
	})
}

func TestBuilder_EnsureMarket(t *testing.T) {
	t.Run("CreatesBothSegments", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, "markets", "FTSE100/", mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, nil)
		client.On("PutObject", mock.Anything, "markets", "FTSE100/strategies/", mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		err := NewBuilder(client, zap.NewNop()).
			EnsureMarket(context.Background(), "markets", config.Market{Name: "FTSE100"})
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("SegmentFailure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", mock.Anything, "markets", "FTSE100/", mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, errors.New("access denied"))

		err := NewBuilder(client, zap.NewNop()).
			EnsureMarket(context.Background(), "markets", config.Market{Name: "FTSE100"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "FTSE100")
	})
}
