package interfaces

import (
	"context"
	"io"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

// SourceControl defines the interface for different VCS providers (GitLab, GitHub)
type SourceControl interface {
	// Projects
	ListProjects(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error)
	GetProject(ctx context.Context, projectID int) (*model.Project, error)
	ListBranches(ctx context.Context, projectID int) ([]*model.Branch, error)
	ListContributors(ctx context.Context, projectID int) ([]model.ProjectContributor, error)
	GetLanguages(ctx context.Context, projectID int) (map[string]float32, error)

	// Commits
	ListCommits(ctx context.Context, projectID int, filter model.CommitFilter) ([]*model.Commit, error)
	GetCommit(ctx context.Context, projectID int, sha string) (*model.Commit, error)
	GetCommitDiff(ctx context.Context, projectID int, sha string) ([]*model.FileDiff, error)

	// Users and events
	ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, error)
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
}

// AgentAPI defines the interface for calling LLM AI models
type AgentAPI interface {
	CallAPI(ctx context.Context, req model.APIRequest) (model.APIResponse, error)
}

// SpeechAPI defines the interface for text-to-speech models
type SpeechAPI interface {
	Synthesize(ctx context.Context, req model.SpeechRequest) (io.ReadCloser, error)
}
