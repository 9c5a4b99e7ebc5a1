package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Reconcile   ReconcileConfig   `toml:"reconcile"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Toggl    TogglConfig    `toml:"toggl"`
	YouTrack YouTrackConfig `toml:"youtrack"`
}

// TogglConfig contains Toggl Track API credentials.
type TogglConfig struct {
	APIToken    string `toml:"api_token"`
	WorkspaceID int64  `toml:"workspace_id"`
	TransferTag string `toml:"transfer_tag"`
}

// YouTrackConfig contains YouTrack API credentials.
type YouTrackConfig struct {
	Token   string `toml:"token"`
	BaseURL string `toml:"base_url"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ReconcileConfig contains reconciliation behavior settings.
type ReconcileConfig struct {
	GroupEntries bool `toml:"group_entries"`
	PageSize     int  `toml:"page_size"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
