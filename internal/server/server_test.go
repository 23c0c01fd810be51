package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/maxbolgarin/gitpulse/internal/agent"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/model/interfaces"
	"github.com/maxbolgarin/gitpulse/internal/provider"
	"github.com/maxbolgarin/gitpulse/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *Server
	source *interfaces.MockSourceControl
	llm    *interfaces.MockAgentAPI
	tts    *interfaces.MockSpeechAPI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		source: &interfaces.MockSourceControl{},
		llm:    &interfaces.MockAgentAPI{},
		tts:    &interfaces.MockSpeechAPI{},
	}

	fetcher, err := provider.NewFetcher(env.source, provider.Config{StatsWorkers: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = fetcher.Close() })

	agentCfg := agent.Config{APIKey: "key"}
	require.NoError(t, agentCfg.PrepareAndValidate())
	speechCfg := agent.SpeechConfig{APIKey: "key"}
	require.NoError(t, speechCfg.PrepareAndValidate())

	reporter := report.New(agent.NewWithAPI(agentCfg, speechCfg, env.llm, env.tts))

	env.server, err = newServer(Config{Location: "UTC"}, fetcher, reporter)
	require.NoError(t, err)

	return env
}

func (e *testEnv) withCommits() {
	now := time.Now()
	e.source.On("ListProjects", mock.Anything, mock.Anything).Return([]*model.Project{
		{ID: 1, Name: "api", DefaultBranch: "main"},
	}, nil)
	e.source.On("ListBranches", mock.Anything, 1).Return([]*model.Branch{{Name: "main", IsDefault: true}}, nil)
	e.source.On("ListCommits", mock.Anything, 1, mock.Anything).Return([]*model.Commit{
		{ID: "c2", AuthorName: "bob", Title: "fix: header", CreatedAt: now.Add(-time.Hour)},
		{ID: "c1", AuthorName: "alice", Title: "feat: login", CreatedAt: now.Add(-2 * time.Hour)},
	}, nil)
}

func (e *testEnv) do(method, target string, body io.Reader, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestActivityAndLatest(t *testing.T) {
	env := newTestEnv(t)
	env.withCommits()

	rec := env.do(http.MethodGet, "/api/activity?period=7", nil, ViewerHeader, "v1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	summary := decode[model.Summary](t, rec)
	assert.Equal(t, 2, summary.Totals.Commits)
	assert.Equal(t, 2, summary.Totals.Contributors)
	require.Len(t, summary.Commits, 2)
	assert.Equal(t, "c2", summary.Commits[0].ID)
	assert.Equal(t, "api", summary.Commits[0].ProjectName)

	rec = env.do(http.MethodGet, "/api/activity/latest", nil, ViewerHeader, "v1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[model.Summary](t, rec).Totals.Commits)

	rec = env.do(http.MethodGet, "/api/activity/latest", nil, ViewerHeader, "v2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, model.ErrorCodeNotFound, decode[errorResponse](t, rec).Code)
}

func TestActivityContributorFilter(t *testing.T) {
	env := newTestEnv(t)
	env.withCommits()

	rec := env.do(http.MethodGet, "/api/activity?contributor=alice&project=all", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[model.Summary](t, rec)
	require.Len(t, summary.Commits, 1)
	assert.Equal(t, "c1", summary.Commits[0].ID)
}

func TestActivitySupersededRequest(t *testing.T) {
	env := newTestEnv(t)

	entered := make(chan struct{})
	env.source.On("ListProjects", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(entered)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled).Once()
	env.source.On("ListProjects", mock.Anything, mock.Anything).Return([]*model.Project{}, nil)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		first <- env.do(http.MethodGet, "/api/activity", nil, ViewerHeader, "v1")
	}()
	<-entered

	rec := env.do(http.MethodGet, "/api/activity?period=1", nil, ViewerHeader, "v1")
	require.Equal(t, http.StatusOK, rec.Code)

	stale := <-first
	assert.Equal(t, http.StatusConflict, stale.Code)
	assert.Equal(t, model.ErrorCodeSuperseded, decode[errorResponse](t, stale).Code)

	latest := env.do(http.MethodGet, "/api/activity/latest", nil, ViewerHeader, "v1")
	require.Equal(t, http.StatusOK, latest.Code)
	assert.Zero(t, decode[model.Summary](t, latest).Totals.Commits)
}

func TestBadRequests(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{
		"/api/activity?period=abc",
		"/api/activity?period=0",
		"/api/activity?project=x",
		"/api/activity?today=maybe",
		"/api/events?timeRange=-1",
		"/api/events?projectId=p",
		"/api/search?q=",
		"/api/users/1/contributions?since=yesterday",
	} {
		rec := env.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, model.ErrorCodeBadRequest, decode[errorResponse](t, rec).Code, target)
	}

	rec := env.do(http.MethodPost, "/api/analyze-commit", strings.NewReader("{"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpstreamErrorIsClassified(t *testing.T) {
	env := newTestEnv(t)
	env.source.On("ListProjects", mock.Anything, mock.Anything).
		Return(nil, model.NewStatusError(http.StatusUnauthorized, "", nil))

	rec := env.do(http.MethodGet, "/api/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decode[errorResponse](t, rec)
	assert.Equal(t, model.ErrorCodeUnauthorized, resp.Code)
	assert.Equal(t, "Unauthorized: invalid token", resp.Error)
}

func TestCommitDetail(t *testing.T) {
	env := newTestEnv(t)
	env.source.On("GetCommit", mock.Anything, 4, "abc").Return(&model.Commit{
		ID: "abc", Stats: &model.CommitStats{Additions: 3, Deletions: 1, Total: 4},
	}, nil)
	env.source.On("GetCommitDiff", mock.Anything, 4, "abc").Return([]*model.FileDiff{{NewPath: "main.go"}}, nil)

	rec := env.do(http.MethodGet, "/api/projects/4/commits/abc", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decode[model.CommitDetail](t, rec)
	assert.Equal(t, 4, detail.Commit.TotalChanges())
	require.Len(t, detail.Diffs, 1)
	assert.Equal(t, "main.go", detail.Diffs[0].NewPath)
}

func TestGenerateReport(t *testing.T) {
	env := newTestEnv(t)
	env.llm.On("CallAPI", mock.Anything, mock.Anything).Return(model.APIResponse{Content: "**Done**"}, nil)

	body := `{"date": "Today", "commits": [{"project": "api", "author": "alice", "title": "feat", "message": "feat"}]}`
	rec := env.do(http.MethodPost, "/api/generate-report", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, decode[reportResponse](t, rec).Report, "<strong>Done</strong>")
}

func TestLLMErrorsKeepUpstreamStatus(t *testing.T) {
	env := newTestEnv(t)
	env.llm.On("CallAPI", mock.Anything, mock.Anything).
		Return(model.APIResponse{}, model.NewStatusError(http.StatusTooManyRequests, "", errors.New("quota")))
	env.tts.On("Synthesize", mock.Anything, mock.Anything).
		Return(nil, model.NewStatusError(http.StatusUnauthorized, "", errors.New("bad key")))

	body := `{"date": "Today", "commits": [{"project": "api", "author": "alice", "title": "feat", "message": "feat"}]}`
	rec := env.do(http.MethodPost, "/api/generate-report", strings.NewReader(body))
	require.Equal(t, http.StatusTooManyRequests, rec.Code, rec.Body.String())
	assert.Equal(t, model.ErrorCodeRateLimit, decode[errorResponse](t, rec).Code)

	rec = env.do(http.MethodPost, "/api/analyze-commit", strings.NewReader(`{"title": "fix", "message": "fix"}`))
	require.Equal(t, http.StatusTooManyRequests, rec.Code, rec.Body.String())
	assert.Equal(t, model.ErrorCodeRateLimit, decode[errorResponse](t, rec).Code)

	rec = env.do(http.MethodPost, "/api/text-to-speech", strings.NewReader(`{"text": "Bonjour"}`))
	require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	assert.Equal(t, model.ErrorCodeUnauthorized, decode[errorResponse](t, rec).Code)
}

func TestTextToSpeechDisabled(t *testing.T) {
	env := newTestEnv(t)

	agentCfg := agent.Config{APIKey: "key"}
	require.NoError(t, agentCfg.PrepareAndValidate())
	env.server.reporter = report.New(agent.NewWithAPI(agentCfg, agent.SpeechConfig{}, env.llm, nil))

	rec := env.do(http.MethodPost, "/api/text-to-speech", strings.NewReader(`{"text": "Bonjour"}`))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.Equal(t, model.ErrorCodeUnavailable, decode[errorResponse](t, rec).Code)
}

func TestTextToSpeech(t *testing.T) {
	env := newTestEnv(t)
	env.tts.On("Synthesize", mock.Anything, mock.MatchedBy(func(req model.SpeechRequest) bool {
		return req.Text == "Bonjour" && req.Voice == "onyx"
	})).Return(io.NopCloser(strings.NewReader("mp3-data")), nil)

	rec := env.do(http.MethodPost, "/api/text-to-speech", strings.NewReader(`{"text": "Bonjour"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "mp3-data", rec.Body.String())

	rec = env.do(http.MethodPost, "/api/text-to-speech", strings.NewReader(`{"text": ""}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.withCommits()

	rec := env.do(http.MethodGet, "/api/activity/export?period=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".parquet")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PAR1")))
}

func TestActivityPage(t *testing.T) {
	env := newTestEnv(t)
	env.withCommits()

	rec := env.do(http.MethodGet, "/?period=14", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := rec.Body.String()
	assert.Contains(t, page, "feat: login")
	assert.Contains(t, page, "Top contributors")
	assert.Contains(t, page, `<option value="14" selected>`)
	assert.Contains(t, page, "/activity/report?")
}

func TestReportPageRendersErrorBlock(t *testing.T) {
	env := newTestEnv(t)
	env.withCommits()
	env.llm.On("CallAPI", mock.Anything, mock.Anything).Return(model.APIResponse{}, assert.AnError)

	rec := env.do(http.MethodGet, "/activity/report?period=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "last 7 days")
	assert.Contains(t, rec.Body.String(), `class="report-error"`)
}

func TestViewerID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", viewerID(req))

	req.Header.Set(ViewerHeader, "tab-1")
	assert.Equal(t, "tab-1", viewerID(req))
}
