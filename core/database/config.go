package database

// Config holds configuration for the run log database.
type Config struct {
	// Enabled switches the run log from the JSON file to the database.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:"commerce_sync"`
	// Path is the database file when Driver is sqlite.
	Path string `mapstructure:"path" default:"data/commerce_sync.db"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
