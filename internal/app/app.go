package app

import (
	"context"

	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/gitpulse/internal/agent"
	"github.com/maxbolgarin/gitpulse/internal/config"
	"github.com/maxbolgarin/gitpulse/internal/model/interfaces"
	"github.com/maxbolgarin/gitpulse/internal/provider"
	"github.com/maxbolgarin/gitpulse/internal/report"
	"github.com/maxbolgarin/gitpulse/internal/server"
	"github.com/maxbolgarin/logze/v2"
)

// GitPulse is the main service that wires the dashboard components
type GitPulse struct {
	provider interfaces.SourceControl
	fetcher  *provider.Fetcher
	agent    *agent.Agent
	reporter *report.Reporter
	server   *server.Server

	cfg config.Config
	log logze.Logger
}

// New creates the dashboard service, shutdown hooks are registered in ctx
func New(ctx contem.Context, cfg config.Config) (*GitPulse, error) {
	service := &GitPulse{
		cfg: cfg,
		log: logze.With("component", "app"),
	}

	if err := service.init(ctx, cfg); err != nil {
		return nil, errm.Wrap(err, "failed to initialize service")
	}

	return service, nil
}

// LoadConfig loads configuration from a file or from environment
func LoadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

// Start starts serving the dashboard in background
func (s *GitPulse) Start(ctx context.Context) error {
	if err := s.server.Start(ctx); err != nil {
		return errm.Wrap(err, "failed to start server")
	}
	return nil
}

func (s *GitPulse) init(ctx contem.Context, cfg config.Config) (err error) {
	s.provider, err = provider.NewProvider(cfg.Provider)
	if err != nil {
		return errm.Wrap(err, "failed to create VCS provider")
	}

	s.fetcher, err = provider.NewFetcher(s.provider, cfg.Provider)
	if err != nil {
		return errm.Wrap(err, "failed to create fetcher")
	}
	ctx.Add(func(context.Context) error { return s.fetcher.Close() })

	s.agent, err = agent.New(ctx, cfg.Agent, cfg.Speech)
	if err != nil {
		return errm.Wrap(err, "failed to create AI agent")
	}
	if !cfg.Speech.Enabled() {
		s.log.Warn("speech api key is not set, text-to-speech is disabled")
	}

	s.reporter = report.New(s.agent)

	s.server, err = server.New(cfg.Server, s.fetcher, s.reporter)
	if err != nil {
		return errm.Wrap(err, "failed to create server")
	}
	ctx.Add(s.server.Stop)

	s.log.Info("service initialized", "provider", cfg.Provider.Type, "agent", cfg.Agent.Type)

	return nil
}
