// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package config loads service settings from a TOML or YAML file and the
// environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	unimath "github.com/nicholasgasior/unimath-go"
)

// Config holds everything the CLI and the HTTP service read at startup.
type Config struct {
	Server      ServerConfig      `toml:"server" yaml:"server"`
	Log         LogConfig         `toml:"log" yaml:"log"`
	PostProcess PostProcessConfig `toml:"postprocess" yaml:"postprocess"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr" yaml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes" yaml:"max_body_bytes"`
	// MaxBatchItems caps the formulas accepted by one batch request.
	MaxBatchItems int `toml:"max_batch_items" yaml:"max_batch_items"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`   // debug, info, warn, error
	Format string `toml:"format" yaml:"format"` // json or text
}

type PostProcessConfig struct {
	MaxPasses int `toml:"max_passes" yaml:"max_passes"`
	// Disabled names built-in rules to remove from the registry.
	Disabled []string     `toml:"disabled" yaml:"disabled"`
	Rules    []RuleConfig `toml:"rules" yaml:"rules"`
	// InputHygiene strips empty constructs and template spacing before parsing.
	InputHygiene bool `toml:"input_hygiene" yaml:"input_hygiene"`
}

// RuleConfig is a user rule appended after the built-in ones. Replace may
// use $1-style group references.
type RuleConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Description string `toml:"description" yaml:"description"`
	Pattern     string `toml:"pattern" yaml:"pattern"`
	Replace     string `toml:"replace" yaml:"replace"`
}

// Duration wraps time.Duration so it can be written as "15s" in both file formats.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

const (
	defaultAddr          = ":8091"
	defaultReadTimeout   = 15 * time.Second
	defaultWriteTimeout  = 30 * time.Second
	defaultMaxBodyBytes  = 1 << 20
	defaultMaxBatchItems = 1000
)

// Load reads path (.toml, .yaml or .yml) when it is not empty, then applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		path = os.ExpandEnv(path)
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads the file named by UNIMATH_CONFIG, or only the
// environment when it is unset.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv("UNIMATH_CONFIG"))
}

func decodeFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = envOr("UNIMATH_ADDR", c.Server.Addr)
	c.Server.ReadTimeout.Duration = envDuration("UNIMATH_READ_TIMEOUT", c.Server.ReadTimeout.Duration)
	c.Server.WriteTimeout.Duration = envDuration("UNIMATH_WRITE_TIMEOUT", c.Server.WriteTimeout.Duration)
	c.Server.MaxBodyBytes = envInt64("UNIMATH_MAX_BODY_BYTES", c.Server.MaxBodyBytes)
	c.Server.MaxBatchItems = envInt("UNIMATH_MAX_BATCH_ITEMS", c.Server.MaxBatchItems)

	c.Log.Level = envOr("UNIMATH_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("UNIMATH_LOG_FORMAT", c.Log.Format)

	c.PostProcess.MaxPasses = envInt("UNIMATH_MAX_PASSES", c.PostProcess.MaxPasses)
	c.PostProcess.InputHygiene = envBool("UNIMATH_INPUT_HYGIENE", c.PostProcess.InputHygiene)
	if v := os.Getenv("UNIMATH_DISABLED_RULES"); v != "" {
		c.PostProcess.Disabled = splitList(v)
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.ReadTimeout.Duration <= 0 {
		c.Server.ReadTimeout.Duration = defaultReadTimeout
	}
	if c.Server.WriteTimeout.Duration <= 0 {
		c.Server.WriteTimeout.Duration = defaultWriteTimeout
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.Server.MaxBatchItems <= 0 {
		c.Server.MaxBatchItems = defaultMaxBatchItems
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.PostProcess.MaxPasses <= 0 {
		c.PostProcess.MaxPasses = unimath.DefaultMaxPasses
	}
}

// Validate reports settings that would fail later at startup.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be json or text, got %q", c.Log.Format)
	}
	known := make(map[string]bool)
	for _, rule := range unimath.DefaultRegistry().Rules() {
		known[rule.Name] = true
	}
	for _, name := range c.PostProcess.Disabled {
		if !known[name] {
			return fmt.Errorf("disabled rule %q is not a built-in rule", name)
		}
	}
	for i, rule := range c.PostProcess.Rules {
		if rule.Name == "" || rule.Pattern == "" {
			return fmt.Errorf("postprocess.rules[%d] needs a name and a pattern", i)
		}
	}
	return nil
}

// Registry builds the post-processing rules: the built-ins minus the
// disabled ones, followed by the configured extra rules.
func (c *Config) Registry() (*unimath.Registry, error) {
	reg := unimath.DefaultRegistry()
	for _, name := range c.PostProcess.Disabled {
		reg.Remove(name)
	}
	for _, rule := range c.PostProcess.Rules {
		if err := reg.AddPattern(rule.Name, rule.Pattern, rule.Replace, rule.Description); err != nil {
			return nil, err
		}
	}
	reg.SetMaxPasses(c.PostProcess.MaxPasses)
	return reg, nil
}

// Converter builds a converter from the post-processing settings.
func (c *Config) Converter(logger *slog.Logger) (*unimath.Converter, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return unimath.New(
		unimath.WithRegistry(reg),
		unimath.WithLogger(logger),
		unimath.WithInputHygiene(c.PostProcess.InputHygiene),
	), nil
}

// Logger creates a slog logger writing to w in the configured format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
