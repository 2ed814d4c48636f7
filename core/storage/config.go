package storage

// Config holds configuration for the snapshot object store.
type Config struct {
	// Enabled turns state snapshots on. When false no client is created.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the S3-compatible endpoint, with or without scheme.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives the snapshots. It is created on first use.
	Bucket string `mapstructure:"bucket" default:"commerce-sync"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// Prefix is the key prefix every snapshot is stored under.
	Prefix string `mapstructure:"prefix" default:"snapshots"`
	// Keep is how many snapshots survive pruning. Zero keeps everything.
	Keep int `mapstructure:"keep" default:"30"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
