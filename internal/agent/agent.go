package agent

import (
	"context"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/gitpulse/internal/agent/claude"
	"github.com/maxbolgarin/gitpulse/internal/agent/gemini"
	"github.com/maxbolgarin/gitpulse/internal/agent/openai"
	"github.com/maxbolgarin/gitpulse/internal/agent/prompts"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/model/interfaces"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrSpeechDisabled is returned when speech synthesis is not configured
var ErrSpeechDisabled = model.NewUnavailableError("Speech synthesis is not configured")

type Agent struct {
	cfg    Config
	speech SpeechConfig
	logger logze.Logger
	pb     *prompts.Builder
	api    interfaces.AgentAPI
	tts    interfaces.SpeechAPI
}

func New(ctx context.Context, cfg Config, speechCfg SpeechConfig) (*Agent, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	if err := speechCfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate speech config")
	}

	cli, err := cliex.NewWithConfig(cliex.Config{
		BaseURL:        cfg.BaseURL,
		UserAgent:      cfg.UserAgent,
		ProxyAddress:   cfg.ProxyURL,
		RequestTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, errm.Wrap(err, "failed to create HTTP client")
	}

	modelCfg := model.ModelConfig{
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		URL:      cfg.BaseURL,
		ProxyURL: cfg.ProxyURL,
		IsTest:   cfg.IsTest,
	}

	var api interfaces.AgentAPI
	switch cfg.Type {
	case Gemini:
		api, err = gemini.New(ctx, modelCfg)
	case OpenAI:
		api, err = openai.New(ctx, cli, modelCfg)
	case Claude:
		api, err = claude.New(ctx, cli, modelCfg)
	default:
		return nil, errm.Errorf("unsupported agent type: %s", cfg.Type)
	}
	if err != nil {
		return nil, errm.Wrap(err, "failed to create agent")
	}

	var tts interfaces.SpeechAPI
	if speechCfg.Enabled() {
		speechCli, err := cliex.NewWithConfig(cliex.Config{
			BaseURL:        speechCfg.BaseURL,
			UserAgent:      cfg.UserAgent,
			ProxyAddress:   speechCfg.ProxyURL,
			RequestTimeout: speechCfg.Timeout,
		})
		if err != nil {
			return nil, errm.Wrap(err, "failed to create speech HTTP client")
		}
		tts, err = openai.NewSpeech(speechCli, openai.SpeechConfig{
			APIKey: speechCfg.APIKey,
			URL:    speechCfg.BaseURL,
			Model:  speechCfg.Model,
			Format: speechCfg.Format,
			Speed:  speechCfg.Speed,
		})
		if err != nil {
			return nil, errm.Wrap(err, "failed to create speech client")
		}
	}

	return NewWithAPI(cfg, speechCfg, api, tts), nil
}

// NewWithAPI creates an agent on top of already constructed model clients, tts may be nil
func NewWithAPI(cfg Config, speechCfg SpeechConfig, api interfaces.AgentAPI, tts interfaces.SpeechAPI) *Agent {
	return &Agent{
		cfg:    cfg,
		speech: speechCfg,
		logger: logze.With("component", "agent"),
		pb:     prompts.NewBuilder(cfg.Language),
		api:    api,
		tts:    tts,
	}
}

// GenerateReport generates a markdown summary of commits
func (a *Agent) GenerateReport(ctx context.Context, req model.ReportRequest) (string, error) {
	if len(req.Commits) == 0 {
		return "", errm.New("no commits to summarize")
	}
	return a.apiCall(ctx, a.pb.BuildReportPrompt(req), false)
}

// AnalyzeCommit rates a commit message and suggests a better one
func (a *Agent) AnalyzeCommit(ctx context.Context, req model.CommitAnalysisRequest) (*model.CommitAnalysis, error) {
	response, err := a.apiCall(ctx, a.pb.BuildCommitAnalysisPrompt(req), true)
	if err != nil {
		return nil, erro.Wrap(err, "failed to call API for commit analysis")
	}

	result, err := unmarshal[model.CommitAnalysis](response)
	if err != nil {
		a.logger.Debug("invalid commit analysis response", "response", lang.TruncateString(response, 500))
		return nil, errm.Wrap(err, "failed to parse commit analysis response as JSON")
	}
	result.Score = min(max(result.Score, 0), 10)

	return &result, nil
}

// Speak synthesizes speech for text, caller must close the returned stream
func (a *Agent) Speak(ctx context.Context, req model.SpeechRequest) (io.ReadCloser, error) {
	if a.tts == nil {
		return nil, ErrSpeechDisabled
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, model.NewBadRequestError("Text is required")
	}
	req.Voice = lang.Check(req.Voice, a.speech.Voice)
	req.Language = lang.Check(req.Language, a.speech.Language)

	body, err := a.tts.Synthesize(ctx, req)
	if err != nil {
		return nil, erro.Wrap(err, "failed to synthesize speech")
	}
	return body, nil
}

func (a *Agent) apiCall(ctx context.Context, prompt model.Prompt, isJSON bool) (string, error) {
	response, err := a.api.CallAPI(ctx, model.APIRequest{
		Prompt:       prompt.UserPrompt,
		SystemPrompt: prompt.SystemPrompt,
		MaxTokens:    a.cfg.MaxTokens,
		Temperature:  a.cfg.Temperature,
		ResponseType: lang.If(isJSON, "application/json", "text/plain"),
	})
	if err != nil {
		return "", erro.Wrap(err, "failed to call API")
	}

	if response.Content == "" {
		return "", errm.New("empty response from API")
	}

	a.logger.Debug("API call finished", "prompt_tokens", response.PromptTokens,
		"completion_tokens", response.CompletionTokens, "json", isJSON)

	return response.Content, nil
}

func unmarshal[T any](response string) (T, error) {
	var result T

	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimPrefix(response, "json")
	response = strings.TrimSuffix(response, "```")

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")

	if start == -1 || end == -1 || end <= start {
		return result, errm.New("no valid JSON found in response")
	}

	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return result, errm.Wrap(err, "failed to parse JSON response")
	}

	return result, nil
}
