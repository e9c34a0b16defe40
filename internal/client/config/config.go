// Package config holds runtime settings for the Chemizer CLI and the
// layered loading that fills them: defaults, then environment (including a
// local .env file), then an optional JSON file, then command-line flags.
// Later sources take precedence.
package config

// Config holds runtime settings for the Chemizer CLI.
//
// Fields:
//   - APIBaseURL: root of the analytics API, e.g. "http://127.0.0.1:8000/api".
//   - DatabasePath: SQLite file holding persisted client state.
type Config struct {
	APIBaseURL   string
	DatabasePath string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.DatabasePath = "chemizer.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given) and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
