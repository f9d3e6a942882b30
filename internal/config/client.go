package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/scheduling"
)

const (
	DefaultAPIURL    = "http://localhost:5001/api"
	DefaultStateFile = "jocky.db"
)

// ClientConfig configures the jocky command line client.
type ClientConfig struct {
	APIURL string `yaml:"api_url"`
	// StatePath is the SQLite file holding the signed-in session.
	StatePath string `yaml:"state_path"`
	LogLevel  string `yaml:"log_level"`
	// Week is the visible hour range of the week grid.
	Week scheduling.Window `yaml:"week"`
	// Anchor pins "today"; empty means the wall clock.
	Anchor string `yaml:"anchor,omitempty"`
	// ICSDomain is the host part of exported event UIDs.
	ICSDomain string `yaml:"ics_domain"`
}

func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		APIURL:    DefaultAPIURL,
		StatePath: DefaultStatePath(),
		LogLevel:  "warn",
		Week:      scheduling.DefaultWindow,
		ICSDomain: "jocky.local",
	}
}

// DefaultStatePath puts the session database under the user config dir,
// falling back to the working directory.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultStateFile
	}
	return filepath.Join(dir, "jocky", DefaultStateFile)
}

// Normalize fills zero values so partially written files still work.
func (c *ClientConfig) Normalize() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.StatePath == "" {
		c.StatePath = DefaultStatePath()
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.Week == (scheduling.Window{}) || c.Week.Validate() != nil {
		c.Week = scheduling.DefaultWindow
	}
	if c.ICSDomain == "" {
		c.ICSDomain = "jocky.local"
	}
}

// LoadClientConfig reads path when it exists, applies the JOCKY_API_URL and
// JOCKY_STATE overrides, and normalizes the result. A missing file is not an
// error.
func LoadClientConfig(path string) (*ClientConfig, error) {
	cfg := DefaultClientConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			cfg = &ClientConfig{}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("JOCKY_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("JOCKY_STATE"); v != "" {
		cfg.StatePath = v
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg as YAML with owner-only permissions.
func (c *ClientConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// AnchorDate parses Anchor; an empty anchor yields the zero date.
func (c *ClientConfig) AnchorDate() (models.Date, error) {
	if c.Anchor == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(c.Anchor)
	if err != nil {
		return models.Date{}, fmt.Errorf("anchor: %w", err)
	}
	return d, nil
}
