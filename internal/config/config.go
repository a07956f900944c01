package config

import (
	"strings"
	"time"

	"github.com/glarch/glarch/internal/hierarchy"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const defaultGitLabHost = "https://gitlab.com"

// ErrNoToken is returned by Load when no private token is configured.
var ErrNoToken = errors.New("GITLAB_PRIVATE_TOKEN is not set")

var (
	MainConfig *viper.Viper
	// Current is the configuration of the last successful Load.
	Current *Config
)

// Config holds everything glarch reads from the environment at startup.
type Config struct {
	Host          string
	Token         string
	Timeout       time.Duration
	TLSSkipVerify bool
	LogLevel      string

	TreeDepth     int
	ProjectLimit  int
	SubgroupLimit int
}

// New returns a viper instance bound to the glarch environment. The
// instance URL and token keep the GITLAB_URL and GITLAB_PRIVATE_TOKEN names
// shared with other GitLab tooling; everything else uses the GLARCH_ prefix.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GLARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("core.host", "GITLAB_URL")
	v.BindEnv("core.token", "GITLAB_PRIVATE_TOKEN")

	v.SetDefault("core.host", defaultGitLabHost)
	v.SetDefault("core.timeout", 10*time.Second)
	v.SetDefault("tls.skip_verify", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("tree.depth", 3)
	v.SetDefault("tree.project_limit", 20)
	v.SetDefault("tree.subgroup_limit", 15)
	return v
}

// Load reads the environment once and stores the result in MainConfig so
// command flags can fall back to it.
func Load() (*Config, error) {
	MainConfig = New()
	c, err := FromViper(MainConfig)
	if err != nil {
		return c, err
	}
	Current = c
	return c, nil
}

// TreeRequest is a walk of root using the configured depth and page limits.
func (c *Config) TreeRequest(root string) hierarchy.Request {
	return hierarchy.Request{
		RootID:        root,
		MaxDepth:      c.TreeDepth,
		ProjectLimit:  c.ProjectLimit,
		SubgroupLimit: c.SubgroupLimit,
	}
}

// FromViper extracts a Config from v. A missing token is an error; the
// caller is expected to treat it as fatal.
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{
		Host:          strings.TrimSuffix(strings.TrimSpace(v.GetString("core.host")), "/"),
		Token:         strings.TrimSpace(v.GetString("core.token")),
		Timeout:       v.GetDuration("core.timeout"),
		TLSSkipVerify: v.GetBool("tls.skip_verify"),
		LogLevel:      v.GetString("log.level"),
		TreeDepth:     v.GetInt("tree.depth"),
		ProjectLimit:  v.GetInt("tree.project_limit"),
		SubgroupLimit: v.GetInt("tree.subgroup_limit"),
	}
	if c.Host == "" {
		c.Host = defaultGitLabHost
	}
	if !strings.HasPrefix(c.Host, "http://") && !strings.HasPrefix(c.Host, "https://") {
		c.Host = "https://" + c.Host
	}
	if c.Token == "" {
		return c, ErrNoToken
	}
	if c.TreeDepth < 0 {
		return c, errors.Errorf("tree.depth must not be negative, got %d", c.TreeDepth)
	}
	return c, nil
}
