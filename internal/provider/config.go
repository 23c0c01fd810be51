package provider

import (
	"slices"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

type ProviderType string

// SupportedProviderTypes defines the supported VCS provider types
const (
	GitLab ProviderType = "gitlab"
	GitHub ProviderType = "github"
)

var supportedProviderTypes = []ProviderType{GitLab, GitHub}

const (
	defaultPerPage      = 100
	defaultStatsWorkers = 16
)

// Config represents VCS provider configuration
type Config struct {
	Type    ProviderType `yaml:"type" env:"PROVIDER_TYPE"`
	BaseURL string       `yaml:"base_url" env:"PROVIDER_BASE_URL"`
	Token   string       `yaml:"token" env:"PROVIDER_TOKEN"`
	PerPage int          `yaml:"per_page" env:"PROVIDER_PER_PAGE"`

	// StatsWorkers limits concurrent per-commit detail requests
	StatsWorkers int `yaml:"stats_workers" env:"PROVIDER_STATS_WORKERS"`
}

func (c *Config) PrepareAndValidate() error {
	if c.Token == "" {
		return errm.New("token is required")
	}

	c.Type = lang.Check(c.Type, GitLab)
	if !slices.Contains(supportedProviderTypes, c.Type) {
		return errm.New("invalid provider type: %s", c.Type)
	}

	c.PerPage = lang.Check(c.PerPage, defaultPerPage)
	c.StatsWorkers = lang.Check(c.StatsWorkers, defaultStatsWorkers)

	return nil
}
