// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorePath points at the SQLite database file. Empty selects the
	// in-memory store.
	StorePath string `koanf:"store_path"`

	// FormsPath points at the YAML file holding form definitions.
	FormsPath string `koanf:"forms_path"`

	// CommitParallelism bounds concurrent assignment writes during plan
	// commit.
	CommitParallelism int `koanf:"commit_parallelism"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		StorePath:         "",
		FormsPath:         "forms.yaml",
		CommitParallelism: 8,
	}
}
