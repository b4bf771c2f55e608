package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	unimath "github.com/nicholasgasior/unimath-go"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != defaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, defaultAddr)
	}
	if cfg.Server.ReadTimeout.Duration != defaultReadTimeout {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.PostProcess.MaxPasses != unimath.DefaultMaxPasses {
		t.Errorf("MaxPasses = %d", cfg.PostProcess.MaxPasses)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "unimath.toml", `
[server]
addr = ":9000"
read_timeout = "5s"

[log]
level = "debug"
format = "text"

[postprocess]
max_passes = 2
disabled = ["word-spacing"]

[[postprocess.rules]]
name = "dots"
pattern = '\.\.\.'
replace = "…"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout.Duration != defaultWriteTimeout {
		t.Errorf("WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
	if cfg.PostProcess.MaxPasses != 2 {
		t.Errorf("MaxPasses = %d", cfg.PostProcess.MaxPasses)
	}
	if len(cfg.PostProcess.Rules) != 1 || cfg.PostProcess.Rules[0].Name != "dots" {
		t.Fatalf("Rules = %+v", cfg.PostProcess.Rules)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "unimath.yaml", `
server:
  addr: ":9001"
  write_timeout: 1m
log:
  level: warn
postprocess:
  input_hygiene: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9001" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.WriteTimeout.Duration != time.Minute {
		t.Errorf("WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	if !cfg.PostProcess.InputHygiene {
		t.Error("InputHygiene not set")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "unimath.ini", "x=1")); err == nil {
		t.Error("expected error for unknown extension")
	}
	if _, err := Load(writeFile(t, "bad.toml", "[server")); err == nil {
		t.Error("expected error for malformed toml")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("UNIMATH_ADDR", ":7000")
	t.Setenv("UNIMATH_MAX_PASSES", "7")
	t.Setenv("UNIMATH_LOG_FORMAT", "text")
	t.Setenv("UNIMATH_DISABLED_RULES", "word-spacing, limit-formatting")
	t.Setenv("UNIMATH_READ_TIMEOUT", "not-a-duration")

	path := writeFile(t, "unimath.toml", "[server]\naddr = \":9000\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q, env should win over file", cfg.Server.Addr)
	}
	if cfg.PostProcess.MaxPasses != 7 {
		t.Errorf("MaxPasses = %d", cfg.PostProcess.MaxPasses)
	}
	if cfg.Server.ReadTimeout.Duration != defaultReadTimeout {
		t.Errorf("ReadTimeout = %v, invalid env value should be ignored", cfg.Server.ReadTimeout)
	}
	want := []string{"word-spacing", "limit-formatting"}
	if strings.Join(cfg.PostProcess.Disabled, ",") != strings.Join(want, ",") {
		t.Errorf("Disabled = %v, want %v", cfg.PostProcess.Disabled, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"format", func(c *Config) { c.Log.Format = "xml" }},
		{"unknown disabled rule", func(c *Config) { c.PostProcess.Disabled = []string{"no-such-rule"} }},
		{"rule without pattern", func(c *Config) { c.PostProcess.Rules = []RuleConfig{{Name: "x"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.PostProcess.Disabled = []string{"word-spacing"}
	cfg.PostProcess.Rules = []RuleConfig{{Name: "dots", Pattern: `\.\.\.`, Replace: "…"}}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	rules := reg.Rules()
	for _, rule := range rules {
		if rule.Name == "word-spacing" {
			t.Error("disabled rule still registered")
		}
	}
	if last := rules[len(rules)-1].Name; last != "dots" {
		t.Errorf("last rule = %q, want dots", last)
	}
	if got := reg.Apply("a..."); got != "a…" {
		t.Errorf("Apply = %q", got)
	}

	cfg.PostProcess.Rules = []RuleConfig{{Name: "broken", Pattern: `(`}}
	if _, err := cfg.Registry(); err == nil {
		t.Error("expected compile error")
	}
}

func TestLogger(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var buf bytes.Buffer
	cfg.Logger(&buf).Info("hello", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json output = %q", buf.String())
	}

	buf.Reset()
	cfg.Log.Format = "text"
	cfg.Log.Level = "error"
	logger := cfg.Logger(&buf)
	logger.Info("dropped")
	logger.Error("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "msg=kept") {
		t.Errorf("text output = %q", buf.String())
	}
}
