// Package config loads the per-project parley.yaml file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the project directory.
const DefaultFile = "parley.yaml"

// Duration parses YAML strings like "500ms" or "2s" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Store backends accepted by Config.Store.Backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// StoreConfig selects and parameterizes the blob store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	// Path is the blob file (file backend) or database file (sqlite backend).
	Path string `yaml:"path"`
	// Addr, Password, DB configure the redis backend.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// Key enables AES-256 at-rest encryption when set. It must decode to
	// 32 bytes of base64.
	Key string `yaml:"encryptionKey"`
}

// Config is the full parley.yaml shape. Unknown keys are ignored.
type Config struct {
	Store StoreConfig `yaml:"store"`

	// ExitLabel is the text of the default terminal answer on new nodes.
	ExitLabel string `yaml:"exitLabel"`
	// AutosaveDebounce is the number of driver cycles a dirty graph waits
	// before autosaving.
	AutosaveDebounce int `yaml:"autosaveDebounceInterval"`

	// TickInterval is the cadence of autosave driver ticks.
	TickInterval Duration `yaml:"tickInterval"`
	// PollInterval is the cadence of availability polls during playback.
	PollInterval Duration `yaml:"pollInterval"`

	LogLevel string `yaml:"logLevel"`

	// ListenAddr is the bind address of the inspection API.
	ListenAddr string `yaml:"listenAddr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    ".parley/graph.json",
			Addr:    "localhost:6379",
		},
		ExitLabel:        "Exit",
		AutosaveDebounce: 1,
		TickInterval:     Duration(2 * time.Second),
		PollInterval:     Duration(5 * time.Second),
		LogLevel:         "info",
		ListenAddr:       ":8080",
	}
}

// Load reads a config file, falling back to defaults when the file does not
// exist. Present keys override defaults; absent keys keep them.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg.normalized(), nil
}

func (c Config) normalized() Config {
	def := Default()
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if c.Store.Path == "" {
		c.Store.Path = def.Store.Path
	}
	if c.Store.Addr == "" {
		c.Store.Addr = def.Store.Addr
	}
	if c.ExitLabel == "" {
		c.ExitLabel = def.ExitLabel
	}
	if c.AutosaveDebounce < 1 {
		c.AutosaveDebounce = def.AutosaveDebounce
	}
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.ListenAddr == "" {
		c.ListenAddr = def.ListenAddr
	}
	return c
}

// Validate rejects unknown backend names.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}
