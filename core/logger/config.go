package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the output encoding (json, console).
	Format string `mapstructure:"format" default:"json"`
	// Service is the value of the "service" field on every entry.
	Service string `mapstructure:"service" default:"commerce-sync"`
}
