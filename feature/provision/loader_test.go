package provision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"market-provisioner/core/config"
	"market-provisioner/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeArtifact(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("artifact bytes"), 0o644))
	return path
}

func TestLoader_Upload(t *testing.T) {
	tagValues := map[string]string{"project": "Test", "version": "1.0"}

	t.Run("UploadAndTag", func(t *testing.T) {
		source := writeArtifact(t, "market_data.parquet")
		client := new(mocks.Client)
		client.On("FPutObject", mock.Anything, "markets", "FTSE100/market_data.parquet", source, mock.Anything).
			Return(minio.UploadInfo{}, nil)
		client.On("PutObjectTagging", mock.Anything, "markets", "FTSE100/market_data.parquet", mock.Anything, mock.Anything).
			Return(nil)

		record := NewLoader(client, zap.NewNop()).
			Upload(context.Background(), "markets", source, "FTSE100/market_data.parquet", tagValues)

		assert.True(t, record.Uploaded)
		assert.True(t, record.Tagged)
		assert.NoError(t, record.Err)
		client.AssertExpectations(t)
	})

	t.Run("MissingSource", func(t *testing.T) {
		client := new(mocks.Client)

		record := NewLoader(client, zap.NewNop()).
			Upload(context.Background(), "markets", "/nope/missing.parquet", "FTSE100/market_data.parquet", tagValues)

		assert.False(t, record.Uploaded)
		var uploadErr *UploadError
		require.ErrorAs(t, record.Err, &uploadErr)
		assert.Equal(t, "FTSE100/market_data.parquet", uploadErr.Dest)
		// The backend must never be touched for an unreadable source.
		client.AssertNotCalled(t, "FPutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CopyFailure", func(t *testing.T) {
		source := writeArtifact(t, "market_data.parquet")
		client := new(mocks.Client)
		client.On("FPutObject", mock.Anything, "markets", "FTSE100/market_data.parquet", source, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("connection reset"))

		record := NewLoader(client, zap.NewNop()).
			Upload(context.Background(), "markets", source, "FTSE100/market_data.parquet", tagValues)

		assert.False(t, record.Uploaded)
		var uploadErr *UploadError
		assert.ErrorAs(t, record.Err, &uploadErr)
		client.AssertNotCalled(t, "PutObjectTagging", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("TagFailureIsNonFatal", func(t *testing.T) {
		source := writeArtifact(t, "bollinger.ipynb")
		client := new(mocks.Client)
		client.On("FPutObject", mock.Anything, "markets", "FTSE100/strategies/bollinger.ipynb", source, mock.Anything).
			Return(minio.UploadInfo{}, nil)
		client.On("PutObjectTagging", mock.Anything, "markets", "FTSE100/strategies/bollinger.ipynb", mock.Anything, mock.Anything).
			Return(errors.New("tags already set"))

		record := NewLoader(client, zap.NewNop()).
			Upload(context.Background(), "markets", source, "FTSE100/strategies/bollinger.ipynb", tagValues)

		assert.True(t, record.Uploaded)
		assert.False(t, record.Tagged)
		assert.Error(t, record.Err)
	})

	t.Run("DelimiterInTagValue", func(t *testing.T) {
		source := writeArtifact(t, "bollinger.ipynb")
		client := new(mocks.Client)
		client.On("FPutObject", mock.Anything, "markets", "FTSE100/strategies/bollinger.ipynb", source, mock.Anything).
			Return(minio.UploadInfo{}, nil)

		record := NewLoader(client, zap.NewNop()).
			Upload(context.Background(), "markets", source, "FTSE100/strategies/bollinger.ipynb",
				map[string]string{"pair_finding": "a=b&c"})

		// The object still lands; only the tag set is rejected.
		assert.True(t, record.Uploaded)
		assert.False(t, record.Tagged)
		assert.Error(t, record.Err)
		client.AssertNotCalled(t, "PutObjectTagging", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NoTags", func(t *testing.T) {
		source := writeArtifact(t, "empty.bin")
		client := new(mocks.Client)
		client.On("FPutObject", mock.Anything, "markets", "misc/empty.bin", source, mock.Anything).
			Return(minio.UploadInfo{}, nil)

		record := NewLoader(client, zap.NewNop()).
			Upload(context.Background(), "markets", source, "misc/empty.bin", nil)

		assert.True(t, record.Uploaded)
		assert.True(t, record.Tagged)
	})
}

func TestTagBuilders(t *testing.T) {
	t.Run("MarketData", func(t *testing.T) {
		got := MarketDataTags(config.Provision{ProjectTag: "Test", VersionTag: "1.0"})
		assert.Equal(t, map[string]string{"project": "Test", "version": "1.0"}, got)
	})

	t.Run("Strategy", func(t *testing.T) {
		got := StrategyTags(config.Strategy{
			Type:        "mean-reversion",
			Description: "1.0",
			PairFinding: "cointegration",
		})
		assert.Equal(t, map[string]string{
			"strategy_type":       "mean-reversion",
			"version_description": "1.0",
			"pair_finding":        "cointegration",
		}, got)
	})
}
