package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/gitpulse/internal/agent"
	"github.com/maxbolgarin/gitpulse/internal/provider"
	"github.com/maxbolgarin/gitpulse/internal/server"
)

// Config represents the main application configuration
type Config struct {
	Server   server.Config      `yaml:"server"`
	Provider provider.Config    `yaml:"provider"`
	Agent    agent.Config       `yaml:"agent"`
	Speech   agent.SpeechConfig `yaml:"speech"`

	Debug bool `yaml:"debug" env:"DEBUG"`
}

// Load reads configuration from a YAML file if path is set, environment variables override file values
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return cfg, errm.Wrap(err, "read config file")
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, errm.Wrap(err, "read config from env")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the settings required to start, defaults are applied by every component
func (c *Config) Validate() error {
	if c.Provider.Token == "" {
		return ErrMissingProviderToken
	}
	if c.Agent.APIKey == "" {
		return ErrMissingAgentAPIKey
	}
	return nil
}
