package config

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hay-kot/criterio"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("github.repo", c.GitHub.Repo, repoWellFormed),
		criterio.Run("git_path", c.GitPath, gitExecutableExists),
		c.validateRunner(),
	)
}

// ValidateDeep adds I/O checks on top of Validate: config file accessibility
// and gh CLI availability when a GitHub repo is configured.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		c.validateGhAvailable(),
	)
}

// repoWellFormed checks the "owner/name" shape. Empty is allowed; commands
// that need a repo enforce presence themselves.
func repoWellFormed(repo string) error {
	if repo == "" {
		return nil
	}
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("must be owner/name, got %q", repo)
	}
	return nil
}

// gitExecutableExists validates that the git path is executable.
func gitExecutableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

func (c *Config) validateRunner() error {
	var errs criterio.FieldErrorsBuilder
	if c.Runner.PollInterval < 0 {
		errs = errs.Append("runner.poll_interval", fmt.Errorf("must not be negative"))
	}
	if c.Runner.Timeout < 0 {
		errs = errs.Append("runner.timeout", fmt.Errorf("must not be negative"))
	}
	return errs.ToError()
}

func (c *Config) validateGhAvailable() error {
	if c.GitHub.Repo == "" {
		return nil
	}
	if _, err := exec.LookPath("gh"); err != nil {
		return criterio.NewFieldErrors("github.repo", fmt.Errorf("gh CLI not found on PATH"))
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}
