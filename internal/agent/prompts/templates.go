package prompts

import (
	"fmt"
	"strings"

	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/logze/v2"
)

type Builder struct {
	language       LanguageConfig
	analysisSchema string
}

// NewBuilder creates a new template builder with language configuration
func NewBuilder(language model.Language) *Builder {
	lang, exists := DefaultLanguages[language]
	if !exists {
		lang = DefaultLanguages[model.LanguageFrench]
	}

	schema, err := GenerateJSONSchema(model.CommitAnalysis{})
	if err != nil {
		logze.DefaultPtr().Warn("cannot build commit analysis schema", "error", err)
		schema = `{"score": number, "analysis": string, "betterCommitMessage": string, "explanation": string}`
	}

	return &Builder{
		language:       lang,
		analysisSchema: schema,
	}
}

// Language returns the configured language
func (tb *Builder) Language() model.Language {
	return tb.language.Language
}

// BuildReportPrompt creates a prompt for a natural-language summary of commits
func (tb *Builder) BuildReportPrompt(req model.ReportRequest) model.Prompt {
	labels := tb.language.ReportHeaders

	var commits strings.Builder
	for _, c := range req.Commits {
		fmt.Fprintf(&commits, reportCommitTemplate,
			labels.Project, c.Project,
			labels.Author, c.Author,
			labels.Title, c.Title,
			labels.Message, strings.TrimSpace(c.Message),
		)
	}

	return model.Prompt{
		SystemPrompt: tb.language.ReportSystemPrompt,
		UserPrompt:   fmt.Sprintf(reportUserPromptTemplate, req.Date, commits.String(), tb.language.Instructions),
		Language:     tb.language.Language,
	}
}

// BuildCommitAnalysisPrompt creates a prompt for rating a commit, the answer is JSON
func (tb *Builder) BuildCommitAnalysisPrompt(req model.CommitAnalysisRequest) model.Prompt {
	name := tb.language.Name
	return model.Prompt{
		SystemPrompt: fmt.Sprintf(commitAnalysisSystemPromptTemplate, tb.language.Instructions),
		UserPrompt: fmt.Sprintf(commitAnalysisUserPromptTemplate,
			req.Title, req.Message, req.Changes,
			name, tb.analysisSchema, name, name,
		),
		Language: tb.language.Language,
	}
}
