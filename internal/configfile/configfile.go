// Package configfile reads and writes the per-workspace scribe.json file.
package configfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const ConfigFileName = "scribe.json"

type Config struct {
	// Database is a SQLite path or a MySQL DSN for the target store.
	Database string `json:"database"`
	// APIBaseURL points at the external branch service.
	APIBaseURL string `json:"api_base_url,omitempty"`
	// FetchTimeoutSeconds bounds one snapshot fetch attempt. 0 means the
	// built-in default.
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds,omitempty"`
	// DefaultActor is recorded as the importing user when --actor is not
	// given.
	DefaultActor string `json:"default_actor,omitempty"`
	// ConcurrentImports runs independent import phases concurrently.
	ConcurrentImports bool `json:"concurrent_imports,omitempty"`
	// SkipDependentsOnFailure skips child phases whose prerequisite phase
	// failed instead of attempting them and dropping unresolvable drafts.
	SkipDependentsOnFailure bool `json:"skip_dependents_on_failure,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Database: "scribe.db",
	}
}

func ConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// Load reads the config from dir. Returns (nil, nil) when no config file
// exists.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(dir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(ConfigPath(dir), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
