package storage_test

import (
	"context"
	"errors"
	"testing"

	"commerce-sync/core/storage"
	"commerce-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "snap").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, m, "snap", ""))
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "snap").Return(false, nil)
		m.On("MakeBucket", ctx, "snap", minio.MakeBucketOptions{Region: "sa-east-1"}).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, m, "snap", "sa-east-1"))
		m.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "snap").Return(false, errors.New("denied"))

		assert.ErrorContains(t, storage.EnsureBucket(ctx, m, "snap", ""), "denied")
	})
}
