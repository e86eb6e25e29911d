// Package config provides reading and writing of searchrelay configuration.
// Supports both global (~/.searchrelay/config.yaml) and local
// (.searchrelay/config.yaml, or $SEARCHRELAY_DIR/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
//
// Configuration covers how searchrelay runs (which browser to attach to,
// where the settings page listens). The engine list itself lives in the
// settings database, not here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.searchrelay/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is directory-specific config in .searchrelay/config.yaml
	ScopeLocal
)

// Author identifies who made settings changes in the revision history.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Browser selects and configures the DevTools connection.
type Browser struct {
	Backend        string `yaml:"backend,omitempty"`
	CDPURL         string `yaml:"cdp_url,omitempty"`
	Headless       *bool  `yaml:"headless,omitempty"`
	TimeoutSeconds *int   `yaml:"timeout_seconds,omitempty"`
}

// UI configures the settings page server.
type UI struct {
	Addr string `yaml:"addr,omitempty"`
}

// Prompt configures the fallback keyword prompt.
type Prompt struct {
	Message string `yaml:"message,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultBackend        = "chromedp"
	DefaultCDPURL         = "http://127.0.0.1:9222"
	DefaultTimeoutSeconds = 10
	DefaultUIAddr         = "127.0.0.1:8765"
	DefaultPromptMessage  = "Enter a search keyword:"
)

// Validation bounds for configuration values.
const (
	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 600
)

// Config contains configuration for searchrelay.
type Config struct {
	Author  Author  `yaml:"author,omitempty"`
	Browser Browser `yaml:"browser,omitempty"`
	UI      UI      `yaml:"ui,omitempty"`
	Prompt  Prompt  `yaml:"prompt,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	switch c.Browser.Backend {
	case "", "chromedp", "rod":
	default:
		return fmt.Errorf("%w: browser.backend must be chromedp or rod, got %q",
			ErrInvalidValue, c.Browser.Backend)
	}
	if c.Browser.TimeoutSeconds != nil {
		v := *c.Browser.TimeoutSeconds
		if v < MinTimeoutSeconds || v > MaxTimeoutSeconds {
			return fmt.Errorf("%w: browser.timeout_seconds must be between %d and %d, got %d",
				ErrInvalidValue, MinTimeoutSeconds, MaxTimeoutSeconds, v)
		}
	}
	return nil
}

// Backend returns the browser backend name (defaults to chromedp).
func (c *Config) Backend() string {
	if c.Browser.Backend == "" {
		return DefaultBackend
	}
	return c.Browser.Backend
}

// CDPURL returns the DevTools endpoint to attach to. The special value
// "launch" means start a private browser instead.
func (c *Config) CDPURL() string {
	if c.Browser.CDPURL == "" {
		return DefaultCDPURL
	}
	return c.Browser.CDPURL
}

// Headless reports whether a launched browser runs headless (defaults to false).
func (c *Config) Headless() bool {
	return c.Browser.Headless != nil && *c.Browser.Headless
}

// Timeout returns the per-probe browser timeout (defaults to 10s).
func (c *Config) Timeout() time.Duration {
	if c.Browser.TimeoutSeconds == nil {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(*c.Browser.TimeoutSeconds) * time.Second
}

// UIAddr returns the settings page listen address.
func (c *Config) UIAddr() string {
	if c.UI.Addr == "" {
		return DefaultUIAddr
	}
	return c.UI.Addr
}

// PromptMessage returns the fallback prompt text.
func (c *Config) PromptMessage() string {
	if c.Prompt.Message == "" {
		return DefaultPromptMessage
	}
	return c.Prompt.Message
}

// LocalPath returns the path to the local config file.
func LocalPath() string {
	if d := os.Getenv("SEARCHRELAY_DIR"); d != "" {
		return filepath.Join(d, "config.yaml")
	}
	return filepath.Join(".searchrelay", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.searchrelay/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".searchrelay", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to path, creating parent directories.
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
