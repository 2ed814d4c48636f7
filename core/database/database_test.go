package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         "mysql",
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "commerce_sync",
			TimeoutSeconds: 2,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		_, err := Connect(Config{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})

	t.Run("SQLite Requires Path", func(t *testing.T) {
		_, err := Connect(Config{Driver: "sqlite"})
		assert.Error(t, err)
	})

	t.Run("SQLite File", func(t *testing.T) {
		db, err := Connect(Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "runs.db")})
		if err != nil && strings.Contains(err.Error(), "cgo") {
			t.Skip("sqlite driver needs cgo")
		}
		require.NoError(t, err)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.NoError(t, sqlDB.Close())
	})
}
