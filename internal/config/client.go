package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	clientConfigDir      = "boardctl"
	clientConfigFileName = "config.toml"
	defaultBaseURL       = "http://localhost:8080"
	defaultTimeout       = 15
	defaultStale         = 30
)

// ClientConfig is the boardctl configuration file.
type ClientConfig struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token,omitempty"`
	LogLevel       string `toml:"log_level"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	StaleSeconds   int    `toml:"stale_seconds"`
}

func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c ClientConfig) StaleTime() time.Duration {
	return time.Duration(c.StaleSeconds) * time.Second
}

// DefaultClientConfigPath is ~/.config/boardctl/config.toml, following
// os.UserConfigDir.
func DefaultClientConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, clientConfigDir, clientConfigFileName), nil
}

// LoadClient reads path, falling back to defaults when the file does not
// exist. BOARD_BASE_URL and BOARD_TOKEN override the file.
func LoadClient(path string) (ClientConfig, error) {
	var cfg ClientConfig
	if b, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return ClientConfig{}, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return ClientConfig{}, err
	}

	if v := strings.TrimSpace(os.Getenv("BOARD_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("BOARD_TOKEN")); v != "" {
		cfg.Token = v
	}
	return normalizeClient(cfg), nil
}

// SaveClient writes cfg to path, creating the directory. The file holds a
// token, so it is private to the user.
func SaveClient(path string, cfg ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := toml.Marshal(normalizeClient(cfg))
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func normalizeClient(cfg ClientConfig) ClientConfig {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeout
	}
	if cfg.StaleSeconds <= 0 {
		cfg.StaleSeconds = defaultStale
	}
	return cfg
}
