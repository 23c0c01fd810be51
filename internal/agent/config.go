package agent

import (
	"slices"
	"time"

	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/lang"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 4000
	defaultTimeout     = 60 * time.Second
	defaultUserAgent   = "gitpulse/0.1.0 (https://github.com/maxbolgarin/gitpulse)"
	defaultLanguage    = model.LanguageFrench

	defaultSpeechModel  = "tts-1"
	defaultSpeechVoice  = "onyx"
	defaultSpeechFormat = "mp3"
	defaultSpeechSpeed  = 1.0
)

// AgentType represents the type of AI agent
type AgentType string

// SupportedAgentTypes defines the supported AI agent types
const (
	Gemini AgentType = "gemini"
	OpenAI AgentType = "openai"
	Claude AgentType = "claude"
)

var supportedAgentTypes = []AgentType{Gemini, OpenAI, Claude}

// Config represents AI agent configuration
type Config struct {
	Type        AgentType `yaml:"type" env:"AGENT_TYPE"` // gemini, openai, claude
	APIKey      string    `yaml:"api_key" env:"AGENT_API_KEY"`
	Model       string    `yaml:"model" env:"AGENT_MODEL"`
	Temperature float32   `yaml:"temperature" env:"AGENT_TEMPERATURE"`
	MaxTokens   int       `yaml:"max_tokens" env:"AGENT_MAX_TOKENS"`

	BaseURL   string        `yaml:"base_url" env:"AGENT_BASE_URL"` // Custom API endpoint (Azure OpenAI, local models, etc.)
	ProxyURL  string        `yaml:"proxy_url" env:"AGENT_PROXY_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"AGENT_TIMEOUT"`
	UserAgent string        `yaml:"user_agent" env:"AGENT_USER_AGENT"`
	IsTest    bool          `yaml:"is_test" env:"AGENT_IS_TEST"`

	Language model.Language `yaml:"language" env:"AGENT_LANGUAGE"`
}

func (c *Config) PrepareAndValidate() error {
	if c.APIKey == "" {
		return erro.New("api key is required")
	}
	c.Type = lang.Check(c.Type, OpenAI)
	if !slices.Contains(supportedAgentTypes, c.Type) {
		return erro.New("invalid agent type: %s", c.Type)
	}

	c.Temperature = lang.Check(c.Temperature, defaultTemperature)
	c.MaxTokens = lang.Check(c.MaxTokens, defaultMaxTokens)
	c.Timeout = lang.Check(c.Timeout, defaultTimeout)
	c.UserAgent = lang.Check(c.UserAgent, defaultUserAgent)
	c.Language = lang.Check(c.Language, defaultLanguage)

	return nil
}

// SpeechConfig represents text-to-speech configuration, the speech API is OpenAI-compatible
type SpeechConfig struct {
	APIKey   string        `yaml:"api_key" env:"SPEECH_API_KEY"`
	BaseURL  string        `yaml:"base_url" env:"SPEECH_BASE_URL"`
	ProxyURL string        `yaml:"proxy_url" env:"SPEECH_PROXY_URL"`
	Model    string        `yaml:"model" env:"SPEECH_MODEL"`
	Voice    string        `yaml:"voice" env:"SPEECH_VOICE"`
	Format   string        `yaml:"format" env:"SPEECH_FORMAT"`
	Speed    float32       `yaml:"speed" env:"SPEECH_SPEED"`
	Timeout  time.Duration `yaml:"timeout" env:"SPEECH_TIMEOUT"`

	Language model.Language `yaml:"language" env:"SPEECH_LANGUAGE"`
}

// PrepareAndValidate applies defaults, an empty key disables speech
func (c *SpeechConfig) PrepareAndValidate() error {
	c.Model = lang.Check(c.Model, defaultSpeechModel)
	c.Voice = lang.Check(c.Voice, defaultSpeechVoice)
	c.Format = lang.Check(c.Format, defaultSpeechFormat)
	c.Speed = lang.Check(c.Speed, defaultSpeechSpeed)
	c.Timeout = lang.Check(c.Timeout, defaultTimeout)
	c.Language = lang.Check(c.Language, defaultLanguage)

	if c.Speed < 0.25 || c.Speed > 4 {
		return erro.New("speech speed must be between 0.25 and 4, got %v", c.Speed)
	}
	return nil
}

// Enabled returns true if speech synthesis is configured
func (c SpeechConfig) Enabled() bool {
	return c.APIKey != ""
}
