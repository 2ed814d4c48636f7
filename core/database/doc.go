// Package database opens the optional SQL database that stores the run log.
//
// It wraps GORM and supports two drivers: mysql for shared deployments and
// sqlite for single-host installs and tests. The database is optional; when
// database.enabled is false or Connect fails, run summaries are kept in a
// JSON document next to the state stores instead.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Run log database unavailable, using file", zap.Error(err))
//	}
package database
