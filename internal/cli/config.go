// Package cli carries the shared plumbing for the pergola commands:
// configuration loading and engine construction.
package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/pergola/pkg/domain"
)

// TransitionRule describes one transition in the config file. Hooks are
// code, not data, so file-driven rules carry routing only; the walk
// command attaches its own hooks to them.
type TransitionRule struct {
	Name string `yaml:"name"`
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`
	Sync bool   `yaml:"sync,omitempty"`
}

// RedisConfig configures the optional Redis markup store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	TTL      string `yaml:"ttl,omitempty"`
}

// Config is the on-disk configuration for the pergola commands.
type Config struct {
	BaseURL     string           `yaml:"base_url"`
	TimeoutMS   int              `yaml:"timeout_ms,omitempty"`
	Cache       *bool            `yaml:"cache,omitempty"`
	Prefetch    *bool            `yaml:"prefetch,omitempty"`
	LogLevel    string           `yaml:"log_level,omitempty"`
	Schema      map[string]any   `yaml:"schema,omitempty"`
	Transitions []TransitionRule `yaml:"transitions,omitempty"`
	Redis       *RedisConfig     `yaml:"redis,omitempty"`
	HistoryPath string           `yaml:"history_path,omitempty"`
}

// LoadConfig reads and parses a YAML config file. A missing path yields
// the zero config, so every command works without one.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Timeout returns the configured request timeout, or zero when unset.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// RedisTTL parses the Redis TTL field. Empty means no expiry.
func (c *RedisConfig) RedisTTL() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("error parsing redis ttl: %w", err)
	}
	return d, nil
}

// BuildTransitions converts the config rules into transition descriptors
// using the provided hook set for every rule.
func (c *Config) BuildTransitions(leave, enter domain.Hook) []*domain.Transition {
	transitions := make([]*domain.Transition, 0, len(c.Transitions))
	for _, rule := range c.Transitions {
		transitions = append(transitions, &domain.Transition{
			Name:  rule.Name,
			From:  domain.Filter{Namespace: rule.From},
			To:    domain.Filter{Namespace: rule.To},
			Sync:  rule.Sync,
			Leave: leave,
			Enter: enter,
		})
	}
	return transitions
}
