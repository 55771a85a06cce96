// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; tokens and the session flag go to
// the OS keychain. Values from config.json are overlaid by BROWSEMATE_*
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"browsemate/cli/internal/xdg"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable name below.
const EnvPrefix = "BROWSEMATE_"

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`
	// CatalogURL is the base URL of the product catalog API.
	CatalogURL string `json:"catalog_url" env:"CATALOG_URL"`
	// IdentityURL is the base URL of the identity toolkit (sign-in, sign-up).
	IdentityURL string `json:"identity_url" env:"IDENTITY_URL"`
	// SecureTokenURL is the base URL used to exchange refresh tokens.
	SecureTokenURL string `json:"securetoken_url" env:"SECURETOKEN_URL"`
	// APIKey is the public web API key of the identity project.
	APIKey string `json:"api_key" env:"API_KEY"`
	// RecheckDelayMS is how long the session resolver waits after a
	// signed-out event before re-reading the persisted flag.
	RecheckDelayMS int `json:"recheck_delay_ms" env:"RECHECK_DELAY_MS"`
	// HTTPTimeoutSeconds bounds every outgoing HTTP request.
	HTTPTimeoutSeconds int `json:"http_timeout_seconds" env:"HTTP_TIMEOUT_SECONDS"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		LogLevel:           "info",
		CatalogURL:         "https://dummyjson.com",
		IdentityURL:        "https://identitytoolkit.googleapis.com",
		SecureTokenURL:     "https://securetoken.googleapis.com",
		RecheckDelayMS:     1000,
		HTTPTimeoutSeconds: 10,
	}
}

// RecheckDelay returns RecheckDelayMS as a duration.
func (c Config) RecheckDelay() time.Duration {
	return time.Duration(c.RecheckDelayMS) * time.Millisecond
}

// HTTPTimeout returns HTTPTimeoutSeconds as a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Validate reports settings that would make the client unusable.
func (c Config) Validate() error {
	if c.CatalogURL == "" {
		return errors.New("catalog_url must not be empty")
	}
	if c.IdentityURL == "" || c.SecureTokenURL == "" {
		return errors.New("identity_url and securetoken_url must not be empty")
	}
	if c.RecheckDelayMS < 0 {
		return fmt.Errorf("recheck_delay_ms must not be negative, got %d", c.RecheckDelayMS)
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("http_timeout_seconds must be positive, got %d", c.HTTPTimeoutSeconds)
	}
	return nil
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; a missing file yields defaults. Environment
// variables are applied last.
func Load() (Config, error) {
	c := Defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", p, err)
		}
	}
	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return c, fmt.Errorf("parse environment: %w", err)
	}
	return c, c.Validate()
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
