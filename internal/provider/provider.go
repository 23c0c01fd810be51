package provider

import (
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/model/interfaces"
	"github.com/maxbolgarin/gitpulse/internal/provider/github"
	"github.com/maxbolgarin/gitpulse/internal/provider/gitlab"
)

// NewProvider creates a new VCS provider based on the configuration
func NewProvider(cfg Config) (interfaces.SourceControl, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}

	cfgForProvider := model.ProviderConfig{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		PerPage: cfg.PerPage,
	}

	var provider interfaces.SourceControl
	var err error

	switch cfg.Type {
	case GitLab:
		provider, err = gitlab.New(cfgForProvider)
	case GitHub:
		provider, err = github.New(cfgForProvider)
	default:
		return nil, erro.New("unsupported provider type: %s", cfg.Type)
	}
	if err != nil {
		return nil, erro.Wrap(err, "failed to create provider")
	}

	return provider, nil
}
