package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/indulgent-dev/indulgent/internal/errors"
	"github.com/indulgent-dev/indulgent/pkg/store"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "indulgent.yaml"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultPages is the default pages source directory.
	DefaultPages = "pages"

	// DefaultOutput is the default render output directory.
	DefaultOutput = "dist"
)

// Config represents the complete indulgent.yaml configuration.
type Config struct {
	// Name is the project name.
	Name string `yaml:"name,omitempty"`

	// Pages is the directory holding binding-annotated HTML sources.
	Pages string `yaml:"pages,omitempty"`

	// Output is the directory pre-rendered pages are written to.
	Output string `yaml:"output,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `yaml:"dev,omitempty"`

	// Store contains persistent signal storage configuration.
	Store StoreConfig `yaml:"store,omitempty"`

	// Publish contains S3 publishing configuration.
	Publish PublishConfig `yaml:"publish,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `yaml:"metrics,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `yaml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `yaml:"port,omitempty"`

	// Host is the host to bind to.
	Host string `yaml:"host,omitempty"`

	// Watch contains extra paths to watch for changes. The pages
	// directory is always watched.
	Watch []string `yaml:"watch,omitempty"`
}

// StoreConfig contains persistent signal storage settings.
type StoreConfig struct {
	// Path is the on-disk location of the store.
	Path string `yaml:"path,omitempty"`

	// InMemory keeps the store in memory, for tests and dev runs.
	InMemory bool `yaml:"inMemory,omitempty"`
}

// PublishConfig contains S3 publishing settings.
type PublishConfig struct {
	// Bucket is the destination S3 bucket.
	Bucket string `yaml:"bucket,omitempty"`

	// Prefix is prepended to every uploaded object key.
	Prefix string `yaml:"prefix,omitempty"`

	// CacheControl is set on every uploaded object when non-empty.
	CacheControl string `yaml:"cacheControl,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the runtime collectors and serves /metrics.
	Enabled bool `yaml:"enabled,omitempty"`

	// Namespace overrides the metrics namespace.
	Namespace string `yaml:"namespace,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Pages:  DefaultPages,
		Output: DefaultOutput,
		Dev: DevConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Store: StoreConfig{
			Path: ".indulgent/store",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// indulgent.yaml in the directory; a missing file yields the defaults.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := New()
		cfg.configPath = configPath
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfigRead).WithPath(path).Wrap(err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).WithPath(path).
			WithDetail(err.Error()).
			WithSuggestion("check that " + ConfigFileName + " is valid YAML")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.CodeConfigRead).WithPath(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Pages == "" {
		c.Pages = DefaultPages
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Store.Path == "" {
		c.Store.Path = ".indulgent/store"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// OpenStore opens the signal store described by the store section.
// An in-memory store ignores the configured path. The caller owns the
// returned store and must close it.
func (c *Config) OpenStore() (store.Store, error) {
	if c.Store.InMemory {
		return store.NewMemory(), nil
	}
	st, err := store.OpenBadger(store.BadgerConfig{Path: c.Store.Path})
	if err != nil {
		return nil, errors.New(errors.CodeStorageRead).WithPath(c.Store.Path).Wrap(err)
	}
	return st, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("dev.port must be between 0 and 65535")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("log.format must be text or json")
	}
	if c.Pages == c.Output {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("pages and output must be different directories")
	}
	return nil
}
