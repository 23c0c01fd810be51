package model

import (
	"time"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageGerman  Language = "de"
	LanguageSpanish Language = "es"
	LanguageRussian Language = "ru"
)

// ModelConfig represents model-specific configuration
type ModelConfig struct {
	APIKey   string
	Model    string
	URL      string
	ProxyURL string
	IsTest   bool
}

// APIRequest represents a request to an LLM API
type APIRequest struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float32
	URL          string
	ResponseType string
}

// APIResponse represents a response from an LLM API
type APIResponse struct {
	CreateTime       time.Time
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Prompt represents a structured prompt for LLM
type Prompt struct {
	SystemPrompt string
	UserPrompt   string
	Language     Language
}

// ReportCommit is the part of a commit that is sent to the report generator
type ReportCommit struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ReportRequest is a batch of commits to summarize under a label ("Today", a date range, ...)
type ReportRequest struct {
	Date    string         `json:"date"`
	Commits []ReportCommit `json:"commits"`
}

// Report is a generated natural-language summary rendered as HTML
type Report struct {
	HTML string `json:"report"`
}

// CommitAnalysisRequest is a commit to rate
type CommitAnalysisRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Changes int    `json:"changes"`
}

// CommitAnalysis is the rating of a commit with a suggested better message
type CommitAnalysis struct {
	Score               int    `json:"score" required:"true" minimum:"0" maximum:"10"`
	Analysis            string `json:"analysis" required:"true"`
	BetterCommitMessage string `json:"betterCommitMessage" required:"true"`
	Explanation         string `json:"explanation" required:"true"`
}

// SpeechRequest is a text to synthesize
type SpeechRequest struct {
	Text     string   `json:"text"`
	Voice    string   `json:"voice"`
	Language Language `json:"language"`
}

// ToReportCommits keeps only title, message, author and project of commits
func ToReportCommits(commits []*Commit) []ReportCommit {
	out := make([]ReportCommit, 0, len(commits))
	for _, c := range commits {
		out = append(out, ReportCommit{
			Project: c.ProjectName,
			Author:  c.AuthorName,
			Title:   c.Title,
			Message: c.Message,
		})
	}
	return out
}
