package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"commerce-sync/core/database"
	"commerce-sync/core/lock"
	"commerce-sync/core/logger"
	"commerce-sync/core/server"
	"commerce-sync/core/storage"
	"commerce-sync/feature/erp"
	"commerce-sync/feature/orchestrator"
	"commerce-sync/feature/storefront"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the admin HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds the optional run log database.
	Database database.Config `mapstructure:"database"`
	// Storage holds the optional snapshot object store.
	Storage storage.Config `mapstructure:"storage"`
	// ERP holds the ERP API credentials.
	ERP erp.Config `mapstructure:"erp"`
	// Store holds the storefront API credentials.
	Store storefront.Config `mapstructure:"store"`
	// Sync holds run settings.
	Sync orchestrator.Config `mapstructure:"sync"`
	// Lock holds the optional Redis run lock.
	Lock lock.Config `mapstructure:"lock"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. ERP_API_KEY -> erp.api_key)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports settings the process cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.ERP.APIKey == "" || c.ERP.SecretKey == "" {
		errs = append(errs, errors.New("erp.api_key and erp.secret_key are required"))
	}
	if c.Store.APIKey == "" {
		errs = append(errs, errors.New("store.api_key is required"))
	}
	if c.Sync.IntervalMinutes <= 0 {
		errs = append(errs, fmt.Errorf("sync.interval_minutes must be positive, got %d", c.Sync.IntervalMinutes))
	}
	if c.Sync.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("sync.page_size must be positive, got %d", c.Sync.PageSize))
	}
	if c.Sync.DataDir == "" {
		errs = append(errs, errors.New("sync.data_dir is required"))
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		errs = append(errs, errors.New("storage.bucket is required when storage is enabled"))
	}
	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
