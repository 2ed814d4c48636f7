package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database and verifies it with a ping.
// Callers treat a failure as "run log falls back to the JSON file".
func Connect(cfg Config) (*gorm.DB, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	dialector, err := dialectorFor(cfg, timeout)
	if err != nil {
		return nil, err
	}

	// GORM logging is silenced; failures surface through returned errors.
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func dialectorFor(cfg Config, timeout int) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		// Special characters in the password must be URL encoded in the DSN.
		userInfo := url.UserPassword(cfg.User, cfg.Password).String()
		dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
			userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)
		return mysql.Open(dsn), nil
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite driver requires database.path")
		}
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
