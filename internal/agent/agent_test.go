package agent

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/model/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAgent(api interfaces.AgentAPI, tts interfaces.SpeechAPI) *Agent {
	cfg := Config{APIKey: "key"}
	_ = cfg.PrepareAndValidate()
	speech := SpeechConfig{}
	_ = speech.PrepareAndValidate()
	return NewWithAPI(cfg, speech, api, tts)
}

func TestGenerateReport(t *testing.T) {
	api := &interfaces.MockAgentAPI{}
	api.On("CallAPI", mock.Anything, mock.MatchedBy(func(req model.APIRequest) bool {
		return req.ResponseType == "text/plain" &&
			req.MaxTokens == defaultMaxTokens &&
			strings.Contains(req.Prompt, "fix: login")
	})).Return(model.APIResponse{Content: "## Résumé"}, nil)

	a := newTestAgent(api, nil)
	report, err := a.GenerateReport(context.Background(), model.ReportRequest{
		Date:    "Today",
		Commits: []model.ReportCommit{{Project: "api", Author: "alice", Title: "fix: login"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "## Résumé", report)
	api.AssertExpectations(t)
}

func TestGenerateReportErrors(t *testing.T) {
	api := &interfaces.MockAgentAPI{}
	a := newTestAgent(api, nil)

	_, err := a.GenerateReport(context.Background(), model.ReportRequest{Date: "Today"})
	require.Error(t, err)
	api.AssertNotCalled(t, "CallAPI", mock.Anything, mock.Anything)

	api.On("CallAPI", mock.Anything, mock.Anything).Return(model.APIResponse{}, errors.New("boom")).Once()
	_, err = a.GenerateReport(context.Background(), model.ReportRequest{
		Date:    "Today",
		Commits: []model.ReportCommit{{Title: "x"}},
	})
	require.Error(t, err)

	api.On("CallAPI", mock.Anything, mock.Anything).Return(model.APIResponse{}, nil).Once()
	_, err = a.GenerateReport(context.Background(), model.ReportRequest{
		Date:    "Today",
		Commits: []model.ReportCommit{{Title: "x"}},
	})
	require.Error(t, err)
}

func TestAnalyzeCommit(t *testing.T) {
	api := &interfaces.MockAgentAPI{}
	api.On("CallAPI", mock.Anything, mock.MatchedBy(func(req model.APIRequest) bool {
		return req.ResponseType == "application/json"
	})).Return(model.APIResponse{Content: "```json\n" +
		`{"score": 14, "analysis": "vague", "betterCommitMessage": "fix(auth): handle expired token", "explanation": "scope"}` +
		"\n```"}, nil)

	a := newTestAgent(api, nil)
	res, err := a.AnalyzeCommit(context.Background(), model.CommitAnalysisRequest{Title: "fix", Message: "fix", Changes: 3})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Score)
	assert.Equal(t, "vague", res.Analysis)
	assert.Equal(t, "fix(auth): handle expired token", res.BetterCommitMessage)
}

func TestAnalyzeCommitInvalidJSON(t *testing.T) {
	api := &interfaces.MockAgentAPI{}
	api.On("CallAPI", mock.Anything, mock.Anything).Return(model.APIResponse{Content: "I cannot rate this"}, nil)

	a := newTestAgent(api, nil)
	_, err := a.AnalyzeCommit(context.Background(), model.CommitAnalysisRequest{Title: "wip"})
	require.Error(t, err)
}

func TestSpeak(t *testing.T) {
	tts := &interfaces.MockSpeechAPI{}
	tts.On("Synthesize", mock.Anything, model.SpeechRequest{
		Text:     "Bonjour",
		Voice:    defaultSpeechVoice,
		Language: defaultLanguage,
	}).Return(io.NopCloser(strings.NewReader("ID3")), nil)

	a := newTestAgent(&interfaces.MockAgentAPI{}, tts)
	body, err := a.Speak(context.Background(), model.SpeechRequest{Text: "Bonjour"})
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))
	tts.AssertExpectations(t)
}

func TestSpeakErrors(t *testing.T) {
	a := newTestAgent(&interfaces.MockAgentAPI{}, nil)
	_, err := a.Speak(context.Background(), model.SpeechRequest{Text: "hi"})
	assert.ErrorIs(t, err, ErrSpeechDisabled)
	assert.Equal(t, http.StatusServiceUnavailable, model.AsAPIError(err).Status)
	assert.Equal(t, model.ErrorCodeUnavailable, model.AsAPIError(err).Code)

	a = newTestAgent(&interfaces.MockAgentAPI{}, &interfaces.MockSpeechAPI{})
	_, err = a.Speak(context.Background(), model.SpeechRequest{Text: "  "})
	apiErr := model.AsAPIError(err)
	assert.Equal(t, model.ErrorCodeBadRequest, apiErr.Code)
}

func TestUnmarshal(t *testing.T) {
	res, err := unmarshal[model.CommitAnalysis]("prefix {\"score\": 7, \"analysis\": \"ok\"} suffix")
	require.NoError(t, err)
	assert.Equal(t, 7, res.Score)

	_, err = unmarshal[model.CommitAnalysis]("no json")
	require.Error(t, err)
}

func TestConfigPrepareAndValidate(t *testing.T) {
	cfg := Config{}
	require.Error(t, cfg.PrepareAndValidate())

	cfg = Config{APIKey: "k"}
	require.NoError(t, cfg.PrepareAndValidate())
	assert.Equal(t, OpenAI, cfg.Type)
	assert.InDelta(t, 0.7, cfg.Temperature, 0.0001)
	assert.Equal(t, model.LanguageFrench, cfg.Language)

	cfg = Config{APIKey: "k", Type: "llama"}
	require.Error(t, cfg.PrepareAndValidate())

	speech := SpeechConfig{Speed: 5}
	require.Error(t, speech.PrepareAndValidate())
	speech = SpeechConfig{}
	require.NoError(t, speech.PrepareAndValidate())
	assert.False(t, speech.Enabled())
	assert.Equal(t, "onyx", speech.Voice)
}

func TestUpstreamStatusSurvivesWrapping(t *testing.T) {
	rateLimited := model.NewStatusError(http.StatusTooManyRequests, "", errors.New("slow down"))

	api := &interfaces.MockAgentAPI{}
	api.On("CallAPI", mock.Anything, mock.Anything).Return(model.APIResponse{}, rateLimited)
	tts := &interfaces.MockSpeechAPI{}
	tts.On("Synthesize", mock.Anything, mock.Anything).
		Return(nil, model.NewStatusError(http.StatusForbidden, "", errors.New("no access")))

	a := newTestAgent(api, tts)

	_, err := a.GenerateReport(context.Background(), model.ReportRequest{
		Date:    "Today",
		Commits: []model.ReportCommit{{Title: "x"}},
	})
	assert.Equal(t, model.ErrorCodeRateLimit, model.AsAPIError(err).Code)

	_, err = a.AnalyzeCommit(context.Background(), model.CommitAnalysisRequest{Title: "fix"})
	assert.Equal(t, http.StatusTooManyRequests, model.AsAPIError(err).Status)

	_, err = a.Speak(context.Background(), model.SpeechRequest{Text: "hi"})
	assert.Equal(t, model.ErrorCodeForbidden, model.AsAPIError(err).Code)
}
