package commands

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/fxchen/autotransform/internal/core/config"
	"github.com/fxchen/autotransform/internal/core/events"
	"github.com/fxchen/autotransform/internal/core/github"
	"github.com/fxchen/autotransform/pkg/executil"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	ghOnce sync.Once
	gh     *github.Clients
}

// GitHubClients returns the process-wide client cache. Commands that talk to
// the hosting system share it, so one repository maps to one client. Built
// lazily because Config is only loaded in the Before hook.
func (f *Flags) GitHubClients() *github.Clients {
	f.ghOnce.Do(func() {
		cfg := f.Config
		f.gh = github.NewClients(func(repository string) *github.Client {
			return github.NewClient(repository, cfg.GitHub.BaseBranch, cfg.GitHub.Workflow,
				&executil.RealExecutor{}, events.NewLogHandler(log.Logger))
		})
	})
	return f.gh
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autotransform", "config.yaml")
}
