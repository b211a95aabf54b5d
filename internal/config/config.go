// Package config provides HCL configuration handling for fwlens.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
)

// Config is the top-level fwlens configuration.
type Config struct {
	Listen       string          `hcl:"listen,optional" json:"listen"`
	LogLevel     string          `hcl:"log_level,optional" json:"log_level"`
	PollInterval string          `hcl:"poll_interval,optional" json:"poll_interval"`
	Backends     []BackendConfig `hcl:"backend,block" json:"backends"`
}

// BackendConfig enables and tunes one firewall backend.
type BackendConfig struct {
	Name    string   `hcl:"name,label" json:"name"`
	Enabled *bool    `hcl:"enabled,optional" json:"enabled,omitempty"`
	Command string   `hcl:"command,optional" json:"command,omitempty"`
	Tables  []string `hcl:"tables,optional" json:"tables,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen:       "127.0.0.1:8035",
		LogLevel:     "info",
		PollInterval: "30s",
	}
}

// Load reads an HCL configuration file. Config values may reference
// process environment variables through the env object, e.g.
// listen = env.FWLENS_LISTEN.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := hclsimple.DecodeFile(path, evalContext(), cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadBytes parses configuration from memory, mainly for tests.
func LoadBytes(filename string, data []byte) (*Config, error) {
	cfg := Default()
	if err := hclsimple.Decode(filename, data, evalContext(), cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// Validate checks field values that cannot be expressed in the schema.
func (c *Config) Validate() error {
	if _, err := c.Interval(); err != nil {
		return err
	}
	for _, b := range c.Backends {
		switch b.Name {
		case "ufw", "iptables", "firewalld":
		default:
			return fmt.Errorf("unknown backend %q in config", b.Name)
		}
	}
	return nil
}

// Interval returns the poll interval as a duration.
func (c *Config) Interval() (time.Duration, error) {
	if c.PollInterval == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid poll_interval %q: %w", c.PollInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("poll_interval must be positive, got %q", c.PollInterval)
	}
	return d, nil
}

// Backend returns the block for a backend name, or nil.
func (c *Config) Backend(name string) *BackendConfig {
	for i := range c.Backends {
		if c.Backends[i].Name == name {
			return &c.Backends[i]
		}
	}
	return nil
}

// BackendEnabled reports whether a backend should be polled.
// Backends are on by default; an explicit enabled = false turns one
// off.
func (c *Config) BackendEnabled(name string) bool {
	b := c.Backend(name)
	if b == nil || b.Enabled == nil {
		return true
	}
	return *b.Enabled
}
