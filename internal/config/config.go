// Package config handles loading and managing lakedash configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// BackendConfig holds connection settings for the warehouse app API.
type BackendConfig struct {
	URL            string `toml:"url"`             // Base URL of the deployed app
	Token          string `toml:"token"`           // Personal access token (optional in app mode)
	AllowInsecure  bool   `toml:"allow_insecure"`  // Permit plain http://
	TimeoutSeconds int    `toml:"timeout_seconds"` // Per-request timeout
}

// Timeout returns the request timeout as a duration.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// UIConfig holds display settings shared by the TUI and CLI surfaces.
type UIConfig struct {
	Locale      string `toml:"locale"`       // BCP 47 tag for number formatting
	PreviewRows int    `toml:"preview_rows"` // Rows shown in the listing preview
}

// ReportConfig holds settings for the HTML snapshot writer.
type ReportConfig struct {
	Out      string `toml:"out"`      // Output path for the snapshot
	Schedule string `toml:"schedule"` // Cron expression for periodic re-render
}

// DemoConfig holds settings for the bundled stub backend.
type DemoConfig struct {
	Listen string `toml:"listen"` // Address the stub backend binds to
}

// Config represents the lakedash configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	UI      UIConfig      `toml:"ui"`
	Report  ReportConfig  `toml:"report"`
	Demo    DemoConfig    `toml:"demo"`

	// Computed at load time, not from the config file
	HomeDir string `toml:"-"`
}

// DefaultHome returns the default lakedash home directory.
// Respects the LAKEDASH_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("LAKEDASH_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lakedash"
	}
	return filepath.Join(home, ".lakedash")
}

// Load reads the configuration from the specified file.
// If path is empty, uses the default location (~/.lakedash/config.toml);
// a missing default file is not an error, but a missing explicit path
// is. The LAKEDASH_TOKEN environment variable overrides the configured
// token.
func Load(path string) (*Config, error) {
	homeDir := DefaultHome()

	explicit := path != ""
	if explicit {
		path = expandPath(path)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	} else {
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := &Config{
		HomeDir: homeDir,
		// Defaults
		Backend: BackendConfig{
			TimeoutSeconds: 30,
		},
		UI: UIConfig{
			Locale:      "en",
			PreviewRows: 10,
		},
		Report: ReportConfig{
			Out: "lakedash-report.html",
		},
		Demo: DemoConfig{
			Listen: "127.0.0.1:8787",
		},
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}

	if tok := os.Getenv("LAKEDASH_TOKEN"); tok != "" {
		cfg.Backend.Token = tok
	}

	cfg.Report.Out = expandPath(cfg.Report.Out)

	return cfg, nil
}

// ConfigPath returns the path of the config file inside the home dir.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.HomeDir, "config.toml")
}

// EnsureHomeDir creates the home directory if it does not exist.
func (c *Config) EnsureHomeDir() error {
	return os.MkdirAll(c.HomeDir, 0o700)
}

// Save writes the configuration to its config file. The token may be a
// credential, so the file is not group or world readable.
func (c *Config) Save() error {
	if err := c.EnsureHomeDir(); err != nil {
		return fmt.Errorf("create home directory: %w", err)
	}

	f, err := os.OpenFile(c.ConfigPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
