// Package storage wraps the MinIO client used to archive sync state.
//
// The Client interface covers the handful of S3 operations the snapshot
// feature needs, so tests can swap in mocks.Client. NewClient builds a MinIO
// client with strict transport timeouts; it works against AWS S3 and
// self-hosted MinIO alike.
//
//	client, err := storage.NewClient(cfg)
//	err = storage.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region)
package storage
