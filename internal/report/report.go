// Package report turns commit batches into narrative HTML summaries and speech.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/logze/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Agent is the LLM side of the reporter
type Agent interface {
	GenerateReport(ctx context.Context, req model.ReportRequest) (string, error)
	AnalyzeCommit(ctx context.Context, req model.CommitAnalysisRequest) (*model.CommitAnalysis, error)
	Speak(ctx context.Context, req model.SpeechRequest) (io.ReadCloser, error)
}

const errorBlockTemplate = `<div class="report-error" role="alert"><strong>Report unavailable</strong><p>%s</p></div>`

// Reporter requests summaries and renders them as HTML
type Reporter struct {
	agent Agent
	md    goldmark.Markdown
	log   logze.Logger
}

// New creates a Reporter on top of an LLM agent
func New(agent Agent) *Reporter {
	return &Reporter{
		agent: agent,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		log:   logze.With("component", "report"),
	}
}

// Generate sends title, message, author and project of commits to the LLM and
// returns the summary converted from markdown to HTML
func (r *Reporter) Generate(ctx context.Context, label string, commits []model.ReportCommit) (string, error) {
	if len(commits) == 0 {
		return "", model.NewBadRequestError("Commits are required")
	}
	timer := abstract.StartTimer()

	markdown, err := r.agent.GenerateReport(ctx, model.ReportRequest{
		Date:    label,
		Commits: commits,
	})
	if err != nil {
		return "", erro.Wrap(err, "failed to generate report")
	}

	out, err := r.ToHTML(markdown)
	if err != nil {
		return "", err
	}

	r.log.Debug("report generated", "label", label, "commits", len(commits), "elapsed", timer.ElapsedTime())

	return out, nil
}

// Render is Generate that never fails, an error is rendered in place of the report
func (r *Reporter) Render(ctx context.Context, label string, commits []model.ReportCommit) string {
	out, err := r.Generate(ctx, label, commits)
	if err != nil {
		r.log.Err(err, "failed to render report", "label", label)
		return ErrorBlock(model.AsAPIError(err).Message)
	}
	return out
}

// Analyze rates a commit message
func (r *Reporter) Analyze(ctx context.Context, req model.CommitAnalysisRequest) (*model.CommitAnalysis, error) {
	if req.Title == "" && req.Message == "" {
		return nil, model.NewBadRequestError("Title or message is required")
	}
	return r.agent.AnalyzeCommit(ctx, req)
}

// Speak copies synthesized audio of a text into w and returns the number of written bytes
func (r *Reporter) Speak(ctx context.Context, req model.SpeechRequest, w io.Writer) (int64, error) {
	body, err := r.agent.Speak(ctx, req)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, errm.Wrap(err, "failed to stream audio")
	}
	return n, nil
}

// ToHTML converts LLM markdown output to HTML
func (r *Reporter) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", errm.Wrap(err, "failed to convert markdown")
	}
	return buf.String(), nil
}

// ErrorBlock is the HTML shown instead of a report that failed
func ErrorBlock(message string) string {
	return fmt.Sprintf(errorBlockTemplate, html.EscapeString(message))
}
