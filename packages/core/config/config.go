package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the kuiper workspace configuration.
type Config struct {
	Timeout         int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
	FollowRedirects *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	MaxRedirects    int               `json:"maxRedirects,omitempty" yaml:"maxRedirects,omitempty"`
	ValidateSSL     *bool             `json:"validateSSL,omitempty" yaml:"validateSSL,omitempty"`
	Proxy           string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // lowest-precedence header layer
	NoColor         *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	History         *bool             `json:"history,omitempty" yaml:"history,omitempty"`
	HistoryPath     string            `json:"historyPath,omitempty" yaml:"historyPath,omitempty"`
}

// ConfigFilenames are the recognized workspace config file names. A
// directory containing one of these (or RootMarker) is the traversal
// root for the ancestor header walk.
var ConfigFilenames = []string{
	"kuiper.config.json",
	"kuiper.config.yaml",
	"kuiper.config.yml",
}

// RootMarker marks a traversal root without carrying any settings.
const RootMarker = ".kuiper-root"

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// BoolPtr returns a pointer to a bool value.
func BoolPtr(b bool) *bool {
	return &b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true.
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true.
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetNoColor returns the no color setting, defaulting to false.
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetHistory returns whether exchange recording is enabled, defaulting
// to false so a plain invocation stays stateless.
func (c *Config) GetHistory() bool {
	return getBool(c.History, false)
}

// IsRoot reports whether dir is a traversal root.
func IsRoot(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, RootMarker)); err == nil {
		return true
	}
	for _, name := range ConfigFilenames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// Load reads the workspace config from dir, if present. A directory
// with no config file yields defaults, not an error.
func Load(dir string) (*Config, error) {
	for _, name := range ConfigFilenames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return loadFile(path)
	}
	return DefaultConfig(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	return cfg, nil
}
