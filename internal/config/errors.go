package config

import "github.com/maxbolgarin/errm"

var (
	ErrMissingProviderToken = errm.New("provider token is required")
	ErrMissingAgentAPIKey   = errm.New("agent API key is required")
)
