package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string `yaml:"home"`      // data directory, e.g. $HOME/.vaultlink
	RelayURL string `yaml:"relay_url"` // relay base URL, e.g. http://127.0.0.1:8080
	LogLevel string `yaml:"log_level"` // logrus level name; default "info"
	PollWait int    `yaml:"poll_wait"` // long-poll wait in seconds

	HTTP *http.Client `yaml:"-"` // optional; defaults to http.DefaultClient
}

// DefaultConfig returns the baseline configuration rooted at home.
func DefaultConfig(home string) Config {
	return Config{
		Home:     home,
		RelayURL: "http://127.0.0.1:8080",
		LogLevel: "info",
		PollWait: 25,
	}
}

// LoadConfig reads home/config.yml over the defaults. A missing file is
// not an error; the defaults stand.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig(home)

	raw, err := os.ReadFile(filepath.Join(home, "config.yml"))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Home == "" {
		cfg.Home = home
	}
	return cfg, nil
}

// SaveConfig writes cfg to home/config.yml.
func SaveConfig(cfg Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return fmt.Errorf("create home: %w", err)
	}
	return os.WriteFile(filepath.Join(cfg.Home, "config.yml"), raw, 0o600)
}
