package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GITLAB_URL", "")
	t.Setenv("GITLAB_PRIVATE_TOKEN", "glpat-abc")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.com", c.Host)
	assert.Equal(t, "glpat-abc", c.Token)
	assert.Equal(t, 10*time.Second, c.Timeout)
	assert.Equal(t, 3, c.TreeDepth)
	assert.Equal(t, 20, c.ProjectLimit)
	assert.Equal(t, 15, c.SubgroupLimit)
	assert.Equal(t, "info", c.LogLevel)
	assert.NotNil(t, MainConfig)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("GITLAB_PRIVATE_TOKEN", "  ")
	Current = nil

	_, err := Load()
	require.ErrorIs(t, err, ErrNoToken)
	assert.Nil(t, Current)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GITLAB_URL", "gitlab.example.com/")
	t.Setenv("GITLAB_PRIVATE_TOKEN", "secret")
	t.Setenv("GLARCH_TREE_DEPTH", "5")
	t.Setenv("GLARCH_TREE_PROJECT_LIMIT", "50")
	t.Setenv("GLARCH_CORE_TIMEOUT", "3s")
	t.Setenv("GLARCH_TLS_SKIP_VERIFY", "true")
	t.Setenv("GLARCH_LOG_LEVEL", "debug")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.example.com", c.Host)
	assert.Equal(t, 5, c.TreeDepth)
	assert.Equal(t, 50, c.ProjectLimit)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.True(t, c.TLSSkipVerify)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoadNegativeDepth(t *testing.T) {
	t.Setenv("GITLAB_PRIVATE_TOKEN", "secret")
	t.Setenv("GLARCH_TREE_DEPTH", "-1")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "tree.depth")
}

func TestTreeRequest(t *testing.T) {
	t.Setenv("GITLAB_PRIVATE_TOKEN", "secret")
	t.Setenv("GLARCH_TREE_DEPTH", "5")
	t.Setenv("GLARCH_TREE_SUBGROUP_LIMIT", "40")

	c, err := Load()
	require.NoError(t, err)
	require.Same(t, c, Current)

	req := c.TreeRequest("acme/platform")
	assert.Equal(t, "acme/platform", req.RootID)
	assert.Equal(t, 5, req.MaxDepth)
	assert.Equal(t, 20, req.ProjectLimit)
	assert.Equal(t, 40, req.SubgroupLimit)
	assert.False(t, req.IncludeInactive)
}
