package server

// Config holds configuration for the admin HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// AuthEnabled reports whether requests must carry the API key.
func (c Config) AuthEnabled() bool {
	return c.ApiKey != ""
}
