package claude

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/model/interfaces"
	"github.com/maxbolgarin/lang"
)

const (
	defaultModel   = "claude-3-5-haiku-20241022"
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	messagesPath = "/v1/messages"
)

var _ interfaces.AgentAPI = (*Agent)(nil)

// Agent implements the AgentAPI interface using Anthropic's Claude API
type Agent struct {
	cfg model.ModelConfig
	cli *cliex.HTTP
}

// New creates a new Claude agent
func New(ctx context.Context, cli *cliex.HTTP, cfg model.ModelConfig) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, errm.New("Claude API key is required")
	}
	cfg.Model = lang.Check(cfg.Model, defaultModel)
	cfg.URL = strings.TrimSuffix(lang.Check(cfg.URL, defaultBaseURL), "/")

	cli.C().SetHeader("x-api-key", cfg.APIKey)
	cli.C().SetHeader("anthropic-version", apiVersion)

	agent := &Agent{
		cfg: cfg,
		cli: cli,
	}

	if cfg.IsTest {
		if err := agent.testConnection(ctx); err != nil {
			return nil, errm.Wrap(err, "failed to connect to Claude API")
		}
	}

	return agent, nil
}

// CallAPI makes a request to the Claude messages API
func (a *Agent) CallAPI(ctx context.Context, req model.APIRequest) (model.APIResponse, error) {
	systemPrompt := req.SystemPrompt
	if req.ResponseType == "application/json" {
		// no native JSON mode, the prompt already carries the schema
		systemPrompt = strings.TrimSpace(systemPrompt + "\nRespond with a single JSON object only.")
	}

	reqBody := messagesRequest{
		Model:       a.cfg.Model,
		System:      systemPrompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []message{
			{
				Role:    "user",
				Content: req.Prompt,
			},
		},
	}

	var respBody messagesResponse
	resp, err := a.cli.Post(ctx, lang.Check(req.URL, a.cfg.URL+messagesPath), reqBody, &respBody)
	if err != nil {
		if resp != nil && resp.StatusCode() >= http.StatusBadRequest {
			return model.APIResponse{}, model.NewStatusError(resp.StatusCode(), "Claude API request failed", err)
		}
		return model.APIResponse{}, errm.Wrap(err, "failed to make API request")
	}

	if respBody.Error != nil {
		return model.APIResponse{}, errm.Errorf("Claude API error: %s", respBody.Error.Message)
	}

	if len(respBody.Content) == 0 {
		return model.APIResponse{}, errm.New("no content in response")
	}

	var responseText strings.Builder
	for _, c := range respBody.Content {
		if c.Type == "text" {
			responseText.WriteString(c.Text)
		}
	}

	out := model.APIResponse{
		CreateTime:       time.Now(),
		Content:          strings.TrimSpace(responseText.String()),
		PromptTokens:     respBody.Usage.InputTokens,
		CompletionTokens: respBody.Usage.OutputTokens,
		TotalTokens:      respBody.Usage.InputTokens + respBody.Usage.OutputTokens,
	}

	return out, nil
}

func (a *Agent) testConnection(ctx context.Context) error {
	_, err := a.CallAPI(ctx, model.APIRequest{
		Prompt:      "Respond with 'OK' if you can understand this message.",
		MaxTokens:   10,
		Temperature: 0.5,
	})
	if err != nil {
		return errm.Wrap(err, "connection test failed")
	}
	return nil
}
