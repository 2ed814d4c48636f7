// Package config loads the commerce-sync configuration.
//
// Values come from the environment (optionally seeded from a .env file) and
// fall back to the `default` struct tags of each section. Nested keys map to
// upper-case variables with underscores, so erp.api_key is ERP_API_KEY.
//
// # Sections
//
//   - Server: admin HTTP port and API key
//   - Log: level and format
//   - Database: optional run log database
//   - Storage: optional S3/MinIO snapshot archive
//   - ERP, Store: API credentials for both systems
//   - Sync: data directory, schedule and paging
//   - Lock: optional Redis run lock
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
