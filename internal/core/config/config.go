// Package config handles configuration loading and validation for
// autotransform.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	GitHub  GitHubConfig `yaml:"github"`
	GitPath string       `yaml:"git_path"`
	Runner  RunnerConfig `yaml:"runner"`
}

// GitHubConfig holds the hosting-side settings.
type GitHubConfig struct {
	// Repo is "owner/name".
	Repo string `yaml:"repo"`
	// BaseBranch is the branch runs start from and pull requests target.
	BaseBranch string `yaml:"base_branch"`
	// Workflow, when set, is the workflow file rerun requests dispatch.
	Workflow string `yaml:"workflow"`
	// Token, when set, is exported as GH_TOKEN for the gh CLI. Empty defers
	// to gh's own auth.
	Token string `yaml:"token"`
}

// RunnerConfig holds run scheduling settings.
type RunnerConfig struct {
	// PollInterval is how often worker completion is checked.
	PollInterval time.Duration `yaml:"poll_interval"`
	// Timeout is the wall-clock budget for a whole run.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GitHub: GitHubConfig{
			BaseBranch: "main",
		},
		GitPath: "git",
		Runner: RunnerConfig{
			PollInterval: time.Second,
			Timeout:      6 * time.Hour,
		},
	}
}

// Load reads configuration from the given path. If configPath is empty or
// doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.GitPath == "" {
		c.GitPath = defaults.GitPath
	}
	if c.GitHub.BaseBranch == "" {
		c.GitHub.BaseBranch = defaults.GitHub.BaseBranch
	}
	if c.Runner.PollInterval == 0 {
		c.Runner.PollInterval = defaults.Runner.PollInterval
	}
	if c.Runner.Timeout == 0 {
		c.Runner.Timeout = defaults.Runner.Timeout
	}
}
