package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxchen/autotransform/internal/core/config"
)

func TestFlags_GitHubClients(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GitHub.Repo = "octo/repo"
	flags := &Flags{Config: &cfg}

	clients := flags.GitHubClients()
	require.NotNil(t, clients)
	assert.Same(t, clients, flags.GitHubClients(), "the cache is built once per process")

	a := clients.Get("octo/repo")
	b := clients.Get("octo/repo")
	assert.Same(t, a, b, "commands share one client per repository")
	assert.Equal(t, "octo/repo", a.Repo())
}
