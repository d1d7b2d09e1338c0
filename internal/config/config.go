// Package config loads the provider list the uethers CLI talks to.
// Provider URLs may reference environment variables (${VAR}); a .env file
// in the working directory is loaded first so API keys stay out of YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root of providers.yaml.
type Config struct {
	Providers []Provider `yaml:"providers"`
	Defaults  Defaults   `yaml:"defaults"`
}

// Provider is a single JSON-RPC endpoint.
type Provider struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout,omitempty"` // falls back to Defaults.Timeout
}

// Defaults apply to every provider unless overridden.
type Defaults struct {
	Timeout       time.Duration `yaml:"timeout"`
	HealthSamples int           `yaml:"health_samples"`
	WatchInterval time.Duration `yaml:"watch_interval"`
}

const (
	lowTimeout  = 500 * time.Millisecond
	highTimeout = 2 * time.Minute
)

// Validate checks required fields and fills provider timeouts from Defaults.
// Suspicious but legal timeouts are reported through logger.
func (c *Config) Validate(logger *slog.Logger) error {
	if c.Defaults.Timeout <= 0 {
		return errors.New("defaults.timeout is required")
	}
	if c.Defaults.HealthSamples <= 0 {
		return errors.New("defaults.health_samples is required and must be > 0")
	}
	if c.Defaults.WatchInterval <= 0 {
		return errors.New("defaults.watch_interval is required")
	}
	if len(c.Providers) == 0 {
		return errors.New("at least one provider is required")
	}

	warnTimeout := func(scope string, d time.Duration) {
		if d > 0 && d < lowTimeout {
			logger.Warn("timeout is very low; requests may fail under normal network jitter", "scope", scope, "timeout", d)
		}
		if d > highTimeout {
			logger.Warn("timeout is very high; failures may take a long time to surface", "scope", scope, "timeout", d)
		}
	}
	warnTimeout("defaults", c.Defaults.Timeout)

	seen := make(map[string]bool, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.Name == "" {
			return fmt.Errorf("provider #%d: name is required", i+1)
		}
		if p.Name == "auto" {
			return fmt.Errorf("provider %s: name is reserved for automatic selection", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("provider %s: duplicate name", p.Name)
		}
		seen[p.Name] = true

		if p.Timeout == 0 {
			p.Timeout = c.Defaults.Timeout
		}
		if p.URL == "" {
			return fmt.Errorf("provider %s: url is required", p.Name)
		}

		u, err := url.Parse(p.URL)
		if err != nil {
			return fmt.Errorf("provider %s: invalid url: %w", p.Name, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("provider %s: invalid url (missing scheme or host)", p.Name)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("provider %s: invalid url scheme %q (expected http or https)", p.Name, u.Scheme)
		}

		warnTimeout("provider "+p.Name, p.Timeout)
	}

	return nil
}

// Find returns the provider with the given name. An empty name selects the
// first configured provider.
func (c *Config) Find(name string) (Provider, error) {
	if name == "" {
		return c.Providers[0], nil
	}
	for _, p := range c.Providers {
		if p.Name == name {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("unknown provider %q", name)
}

// Load reads path, expands ${VAR} references and validates the result.
func Load(path string, logger *slog.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, logger)
}

// Parse is Load without the file read.
func Parse(data []byte, logger *slog.Logger) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(logger); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnv loads KEY=VALUE pairs from the given files (".env" when none are
// named). Missing files are skipped; variables already set in the process
// environment win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}
