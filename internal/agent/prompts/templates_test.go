package prompts

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportPrompt(t *testing.T) {
	b := NewBuilder(model.LanguageFrench)

	prompt := b.BuildReportPrompt(model.ReportRequest{
		Date: "Today",
		Commits: []model.ReportCommit{
			{Project: "api", Author: "alice", Title: "feat: login", Message: "feat: login\n\nadd oauth\n"},
			{Project: "web", Author: "bob", Title: "fix: header", Message: "fix: header"},
		},
	})

	assert.Equal(t, model.LanguageFrench, prompt.Language)
	assert.Contains(t, prompt.SystemPrompt, "en français")
	assert.Contains(t, prompt.UserPrompt, "for Today")
	assert.Contains(t, prompt.UserPrompt, "Projet: api")
	assert.Contains(t, prompt.UserPrompt, "Auteur: bob")
	assert.Contains(t, prompt.UserPrompt, "Titre: feat: login")
	assert.Contains(t, prompt.UserPrompt, "add oauth")
}

func TestBuilderFallsBackToFrench(t *testing.T) {
	b := NewBuilder("xx")
	assert.Equal(t, model.LanguageFrench, b.Language())

	b = NewBuilder(model.LanguageEnglish)
	assert.Equal(t, model.LanguageEnglish, b.Language())
	assert.Contains(t, b.BuildReportPrompt(model.ReportRequest{Date: "Yesterday"}).SystemPrompt, "English")
}

func TestBuildCommitAnalysisPrompt(t *testing.T) {
	b := NewBuilder(model.LanguageFrench)

	prompt := b.BuildCommitAnalysisPrompt(model.CommitAnalysisRequest{Title: "wip", Message: "stuff", Changes: 12})

	assert.Contains(t, prompt.UserPrompt, "Title: wip")
	assert.Contains(t, prompt.UserPrompt, "Changes: 12 files modified")
	assert.Contains(t, prompt.UserPrompt, "betterCommitMessage")
	assert.Contains(t, prompt.UserPrompt, "in French")
	assert.Contains(t, prompt.SystemPrompt, "JSON")
}

func TestGenerateJSONSchema(t *testing.T) {
	schema, err := GenerateJSONSchema(model.CommitAnalysis{})
	require.NoError(t, err)

	var parsed struct {
		Type       string                    `json:"type"`
		Required   []string                  `json:"required"`
		Properties map[string]map[string]any `json:"properties"`
	}
	require.NoError(t, jsoniter.Unmarshal([]byte(schema), &parsed))

	assert.Equal(t, "object", parsed.Type)
	assert.ElementsMatch(t, []string{"score", "analysis", "betterCommitMessage", "explanation"}, parsed.Required)
	assert.Equal(t, float64(10), parsed.Properties["score"]["maximum"])
	assert.Equal(t, "string", parsed.Properties["analysis"]["type"])
}
