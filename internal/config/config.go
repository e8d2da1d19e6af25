// Package config handles loading, validating, and persisting the
// application configuration: saved library instances plus serve-mode
// settings, stored as YAML with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rexlibris/rexlibris/internal/primo"
)

// KnownLibraries are the built-in presets available without setup.
var KnownLibraries = map[string]primo.LibraryConfig{
	"ucl": {
		Name:        "UCL Library",
		BaseURL:     "https://ucl.primo.exlibrisgroup.com",
		VID:         "44UCL_INST:UCL_VU2",
		Tab:         "UCLLibraryCatalogue",
		Scope:       "MyInst_and_CI",
		Institution: "44UCL_INST",
	},
}

// Config is the top-level application configuration.
type Config struct {
	Active    string                         `yaml:"active,omitempty"`
	Libraries map[string]primo.LibraryConfig `yaml:"libraries,omitempty"`
	Server    ServerConfig                   `yaml:"server"`
	Pool      PoolConfig                     `yaml:"pool"`
	Words     WordsConfig                    `yaml:"words"`
	Logging   LoggingConfig                  `yaml:"logging"`

	// path the config was loaded from; Save writes back here.
	path string
}

// ServerConfig defines the Echo HTTP server settings for serve mode.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// PoolConfig defines result pool sizing and refresh settings.
type PoolConfig struct {
	Target         int           `yaml:"target"`
	LowWater       int           `yaml:"low_water"`
	Workers        int           `yaml:"workers"`
	RefillInterval time.Duration `yaml:"refill_interval"`
	RatePerSecond  float64       `yaml:"rate_per_second"`
	RateBurst      int           `yaml:"rate_burst"`
}

// WordsConfig defines word supply settings.
type WordsConfig struct {
	SourceURL string `yaml:"source_url"`
	BatchSize int    `yaml:"batch_size"`
	LowWater  int    `yaml:"low_water"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultPath returns the default config file location under the user
// config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "rexlibris", "config.yaml"), nil
}

// Load reads and parses the YAML config at path, performing environment
// variable substitution and validation. A missing file yields a usable
// default configuration that Save will create on first write.
func Load(path string) (*Config, error) {
	cfg := &Config{path: path}

	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration back to the file it was loaded from,
// creating the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no file path")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Library resolves a library by key, consulting saved libraries first,
// then built-in presets. An empty key resolves the active library.
func (c *Config) Library(key string) (primo.LibraryConfig, bool) {
	if key == "" {
		key = c.Active
	}
	if key == "" {
		return primo.LibraryConfig{}, false
	}
	if lib, ok := c.Libraries[key]; ok {
		return lib, true
	}
	if lib, ok := KnownLibraries[key]; ok {
		return lib, true
	}
	return primo.LibraryConfig{}, false
}

// AllLibraries returns saved libraries merged with built-in presets.
// Saved entries shadow presets with the same key.
func (c *Config) AllLibraries() map[string]primo.LibraryConfig {
	libs := make(map[string]primo.LibraryConfig, len(c.Libraries)+len(KnownLibraries))
	for k, v := range KnownLibraries {
		libs[k] = v
	}
	for k, v := range c.Libraries {
		libs[k] = v
	}
	return libs
}

// Saved reports whether key refers to a user-saved library (as opposed to
// a built-in preset).
func (c *Config) Saved(key string) bool {
	_, ok := c.Libraries[key]
	return ok
}

// AddLibrary saves a library under key and makes it active.
func (c *Config) AddLibrary(key string, lib primo.LibraryConfig) error {
	if _, builtin := KnownLibraries[key]; builtin {
		return fmt.Errorf("%q is a built-in library name, choose another", key)
	}
	if c.Libraries == nil {
		c.Libraries = make(map[string]primo.LibraryConfig)
	}
	c.Libraries[key] = lib
	c.Active = key
	return c.Save()
}

// RemoveLibrary deletes a saved library. Built-in presets cannot be removed.
func (c *Config) RemoveLibrary(key string) error {
	if _, builtin := KnownLibraries[key]; builtin {
		return fmt.Errorf("cannot remove built-in library %q", key)
	}
	if _, ok := c.Libraries[key]; !ok {
		return fmt.Errorf("library %q not found", key)
	}
	delete(c.Libraries, key)
	if c.Active == key {
		c.Active = ""
	}
	return c.Save()
}

// SetActive marks a known library as the default.
func (c *Config) SetActive(key string) error {
	if _, ok := c.Library(key); !ok {
		return fmt.Errorf("library %q not found", key)
	}
	c.Active = key
	return c.Save()
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyPoolDefaults(&cfg.Pool)
	applyWordsDefaults(&cfg.Words)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyPoolDefaults(p *PoolConfig) {
	if p.Target == 0 {
		p.Target = 150
	}
	if p.LowWater == 0 {
		p.LowWater = 30
	}
	if p.Workers == 0 {
		p.Workers = 4
	}
	if p.RefillInterval == 0 {
		p.RefillInterval = 2 * time.Minute
	}
	if p.RatePerSecond == 0 {
		p.RatePerSecond = 5.0
	}
	if p.RateBurst == 0 {
		p.RateBurst = 8
	}
}

func applyWordsDefaults(w *WordsConfig) {
	if w.SourceURL == "" {
		w.SourceURL = "https://random-word-api.vercel.app/api"
	}
	if w.BatchSize == 0 {
		w.BatchSize = 80
	}
	if w.LowWater == 0 {
		w.LowWater = 20
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Pool.Target < cfg.Pool.LowWater {
		errs = append(errs, fmt.Errorf(
			"pool.target (%d) must be >= pool.low_water (%d)",
			cfg.Pool.Target, cfg.Pool.LowWater,
		))
	}
	if cfg.Pool.Workers < 1 {
		errs = append(errs, fmt.Errorf("pool.workers must be >= 1"))
	}

	for key, lib := range cfg.Libraries {
		if lib.BaseURL == "" || lib.VID == "" || lib.Tab == "" ||
			lib.Scope == "" || lib.Institution == "" {
			errs = append(errs, fmt.Errorf(
				"library %q is missing required fields (base_url, vid, tab, scope, institution)",
				key,
			))
		}
	}

	return errors.Join(errs...)
}
