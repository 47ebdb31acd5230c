// Package config resolves mythchaser settings from defaults, a YAML file, and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/history"
)

// Environment variables consulted by FromEnv.
const (
	EnvEndpoint = "MYTHCHASER_ENDPOINT"
	EnvConfig   = "MYTHCHASER_CONFIG"
	EnvLogFile  = "MYTHCHASER_LOG_FILE"
	EnvDropDir  = "MYTHCHASER_DROP_DIR"
)

// Config holds every runtime setting. Zero values mean "not set" when layering.
type Config struct {
	Endpoint       string   `yaml:"endpoint"`
	RequestTimeout Duration `yaml:"request_timeout"`
	LogFile        string   `yaml:"log_file"`
	Debug          bool     `yaml:"debug"`
	DropDir        string   `yaml:"drop_dir"`
	HistoryFile    string   `yaml:"history_file"`
	HistorySize    int      `yaml:"history_size"`
}

// Duration accepts Go duration strings ("30s") or bare seconds in YAML.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		d.Duration = 0
		return nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		d.Duration = time.Duration(secs) * time.Second
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Config {
	return Config{
		Endpoint:    classify.DefaultEndpoint,
		HistorySize: history.DefaultSize,
	}
}

// Load reads a YAML config file, expands environment variables, and
// unmarshals into a Config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv collects the settings present in the environment.
func FromEnv() Config {
	return Config{
		Endpoint: strings.TrimSpace(os.Getenv(EnvEndpoint)),
		LogFile:  strings.TrimSpace(os.Getenv(EnvLogFile)),
		DropDir:  strings.TrimSpace(os.Getenv(EnvDropDir)),
	}
}

// Merge overlays every set field of over onto base.
func Merge(base, over Config) Config {
	if over.Endpoint != "" {
		base.Endpoint = over.Endpoint
	}
	if over.RequestTimeout.Duration != 0 {
		base.RequestTimeout = over.RequestTimeout
	}
	if over.LogFile != "" {
		base.LogFile = over.LogFile
	}
	if over.Debug {
		base.Debug = true
	}
	if over.DropDir != "" {
		base.DropDir = over.DropDir
	}
	if over.HistoryFile != "" {
		base.HistoryFile = over.HistoryFile
	}
	if over.HistorySize != 0 {
		base.HistorySize = over.HistorySize
	}
	return base
}

// Resolve layers defaults, the optional config file, the environment, and flags, in that order.
func Resolve(path string, flags Config) (Config, error) {
	cfg := Defaults()
	if path != "" {
		fileCfg, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = Merge(cfg, fileCfg)
	}
	cfg = Merge(cfg, FromEnv())
	cfg = Merge(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if c.RequestTimeout.Duration < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative")
	}
	return nil
}
