package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/model/interfaces"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const (
	defaultBaseURL = "https://gitlab.com"
	defaultPerPage = 100

	eventDateLayout = "2006-01-02"
)

var _ interfaces.SourceControl = (*Provider)(nil)

// Provider implements the SourceControl interface for GitLab
type Provider struct {
	client  *gitlab.Client
	config  model.ProviderConfig
	perPage int
	logger  logze.Logger
}

// New creates a new GitLab provider
func New(config model.ProviderConfig) (*Provider, error) {
	if config.Token == "" {
		return nil, errm.New("GitLab token is required")
	}
	logger := logze.With("provider", "gitlab", "component", "provider")

	baseURL := lang.Check(config.BaseURL, defaultBaseURL)

	client, err := gitlab.NewClient(config.Token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, errm.Wrap(err, "failed to create GitLab client")
	}

	return &Provider{
		client:  client,
		config:  config,
		perPage: lang.Check(config.PerPage, defaultPerPage),
		logger:  logger,
	}, nil
}

// ListProjects retrieves projects of the caller, all pages unless filter.Limit is set
func (p *Provider) ListProjects(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error) {
	opts := &gitlab.ListProjectsOptions{
		ListOptions: gitlab.ListOptions{PerPage: p.pageSize(filter.Limit)},
		Membership:  gitlab.Ptr(filter.Membership),
		Statistics:  gitlab.Ptr(filter.Statistics),
	}
	if filter.Search != "" {
		opts.Search = gitlab.Ptr(filter.Search)
	}

	projects, err := paginate(filter.Limit, func(page int) ([]*gitlab.Project, *gitlab.Response, error) {
		opts.Page = page
		return p.client.Projects.ListProjects(opts, gitlab.WithContext(ctx))
	})
	if err != nil {
		return nil, classify(err, nil, "failed to list projects")
	}

	result := make([]*model.Project, 0, len(projects))
	for _, project := range projects {
		result = append(result, convertProject(project))
	}

	return result, nil
}

// GetProject retrieves a single project with its statistics
func (p *Provider) GetProject(ctx context.Context, projectID int) (*model.Project, error) {
	opts := &gitlab.GetProjectOptions{Statistics: gitlab.Ptr(true)}

	project, resp, err := p.client.Projects.GetProject(projectID, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classify(err, resp, "failed to get project")
	}

	return convertProject(project), nil
}

// ListBranches retrieves all branches of a project
func (p *Provider) ListBranches(ctx context.Context, projectID int) ([]*model.Branch, error) {
	opts := &gitlab.ListBranchesOptions{
		ListOptions: gitlab.ListOptions{PerPage: p.perPage},
	}

	branches, err := paginate(0, func(page int) ([]*gitlab.Branch, *gitlab.Response, error) {
		opts.Page = page
		return p.client.Branches.ListBranches(projectID, opts, gitlab.WithContext(ctx))
	})
	if err != nil {
		return nil, classify(err, nil, "failed to list branches")
	}

	result := make([]*model.Branch, 0, len(branches))
	for _, branch := range branches {
		result = append(result, &model.Branch{
			Name:      branch.Name,
			IsDefault: branch.Default,
		})
	}

	return result, nil
}

// ListContributors retrieves lifetime contributors of a project repository
func (p *Provider) ListContributors(ctx context.Context, projectID int) ([]model.ProjectContributor, error) {
	opts := &gitlab.ListContributorsOptions{
		ListOptions: gitlab.ListOptions{PerPage: p.perPage},
	}

	contributors, resp, err := p.client.Repositories.Contributors(projectID, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classify(err, resp, "failed to list contributors")
	}

	result := make([]model.ProjectContributor, 0, len(contributors))
	for _, c := range contributors {
		result = append(result, model.ProjectContributor{
			Name:    c.Name,
			Commits: c.Commits,
		})
	}

	return result, nil
}

// GetLanguages retrieves the language breakdown of a project in percents
func (p *Provider) GetLanguages(ctx context.Context, projectID int) (map[string]float32, error) {
	languages, resp, err := p.client.Projects.GetProjectLanguages(projectID, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classify(err, resp, "failed to get project languages")
	}
	if languages == nil {
		return map[string]float32{}, nil
	}

	return map[string]float32(*languages), nil
}

// ListCommits retrieves commits of one branch in the given window
func (p *Provider) ListCommits(ctx context.Context, projectID int, filter model.CommitFilter) ([]*model.Commit, error) {
	opts := &gitlab.ListCommitsOptions{
		ListOptions: gitlab.ListOptions{PerPage: p.perPage},
	}
	if filter.RefName != "" {
		opts.RefName = gitlab.Ptr(filter.RefName)
	}
	if !filter.Since.IsZero() {
		opts.Since = gitlab.Ptr(filter.Since)
	}
	if !filter.Until.IsZero() {
		opts.Until = gitlab.Ptr(filter.Until)
	}

	commits, err := paginate(0, func(page int) ([]*gitlab.Commit, *gitlab.Response, error) {
		opts.Page = page
		return p.client.Commits.ListCommits(projectID, opts, gitlab.WithContext(ctx))
	})
	if err != nil {
		return nil, classify(err, nil, "failed to list commits")
	}

	result := make([]*model.Commit, 0, len(commits))
	for _, commit := range commits {
		c := convertCommit(commit)
		c.ProjectID = projectID
		c.BranchName = filter.RefName
		result = append(result, c)
	}

	return result, nil
}

// GetCommit retrieves a single commit together with its line statistics
func (p *Provider) GetCommit(ctx context.Context, projectID int, sha string) (*model.Commit, error) {
	commit, resp, err := p.client.Commits.GetCommit(projectID, sha, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, classify(err, resp, "failed to get commit")
	}

	c := convertCommit(commit)
	c.ProjectID = projectID
	return c, nil
}

// GetCommitDiff retrieves file diffs of a single commit
func (p *Provider) GetCommitDiff(ctx context.Context, projectID int, sha string) ([]*model.FileDiff, error) {
	opts := &gitlab.GetCommitDiffOptions{
		ListOptions: gitlab.ListOptions{PerPage: p.perPage},
	}

	diffs, err := paginate(0, func(page int) ([]*gitlab.Diff, *gitlab.Response, error) {
		opts.Page = page
		return p.client.Commits.GetCommitDiff(projectID, sha, opts, gitlab.WithContext(ctx))
	})
	if err != nil {
		return nil, classify(err, nil, "failed to get commit diff")
	}

	fileDiffs := make([]*model.FileDiff, 0, len(diffs))
	for _, diff := range diffs {
		fileDiffs = append(fileDiffs, &model.FileDiff{
			OldPath:   diff.OldPath,
			NewPath:   diff.NewPath,
			Diff:      diff.Diff,
			IsNew:     diff.NewFile,
			IsDeleted: diff.DeletedFile,
			IsRenamed: diff.RenamedFile,
		})
	}

	return fileDiffs, nil
}

// ListUsers retrieves users of the instance
func (p *Provider) ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	opts := &gitlab.ListUsersOptions{
		ListOptions: gitlab.ListOptions{PerPage: p.pageSize(filter.Limit)},
	}
	if filter.Active {
		opts.Active = gitlab.Ptr(true)
	}
	if filter.Search != "" {
		opts.Search = gitlab.Ptr(filter.Search)
	}

	users, err := paginate(filter.Limit, func(page int) ([]*gitlab.User, *gitlab.Response, error) {
		opts.Page = page
		return p.client.Users.ListUsers(opts, gitlab.WithContext(ctx))
	})
	if err != nil {
		return nil, classify(err, nil, "failed to list users")
	}

	result := make([]*model.User, 0, len(users))
	for _, u := range users {
		result = append(result, &model.User{
			ID:        u.ID,
			Username:  u.Username,
			Name:      u.Name,
			AvatarURL: u.AvatarURL,
			State:     u.State,
		})
	}

	return result, nil
}

// ListEvents retrieves events of a user, of a project or of everything visible to the caller.
// After and Before are sent as dates, the API treats both bounds as exclusive.
func (p *Provider) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	path := "events"
	opts := &listEventsOptions{
		PerPage: p.pageSize(filter.Limit),
		Action:  filter.Action,
	}

	switch {
	case filter.UserID != 0:
		path = fmt.Sprintf("users/%d/events", filter.UserID)
	case filter.ProjectID != 0:
		path = fmt.Sprintf("projects/%d/events", filter.ProjectID)
	default:
		opts.Scope = "all"
	}
	if !filter.After.IsZero() {
		opts.After = filter.After.Format(eventDateLayout)
	}
	if !filter.Before.IsZero() {
		opts.Before = filter.Before.Format(eventDateLayout)
	}

	events, err := paginate(filter.Limit, func(page int) ([]*gitlabEvent, *gitlab.Response, error) {
		opts.Page = page
		req, err := p.client.NewRequest(http.MethodGet, path, opts, []gitlab.RequestOptionFunc{gitlab.WithContext(ctx)})
		if err != nil {
			return nil, nil, err
		}
		var out []*gitlabEvent
		resp, err := p.client.Do(req, &out)
		return out, resp, err
	})
	if err != nil {
		return nil, classify(err, nil, "failed to list events")
	}

	result := make([]*model.Event, 0, len(events))
	for _, e := range events {
		result = append(result, convertEvent(e))
	}

	return result, nil
}

func (p *Provider) pageSize(limit int) int {
	if limit > 0 && limit < p.perPage {
		return limit
	}
	return p.perPage
}

// paginate follows NextPage until the last page or until limit items are collected
func paginate[T any](limit int, fetch func(page int) ([]T, *gitlab.Response, error)) ([]T, error) {
	var all []T
	page := 1
	for {
		items, resp, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}
		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		page = resp.NextPage
	}
}

func convertProject(project *gitlab.Project) *model.Project {
	out := &model.Project{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		DefaultBranch:  project.DefaultBranch,
		WebURL:         project.WebURL,
		AvatarURL:      project.AvatarURL,
		LastActivityAt: lang.Deref(project.LastActivityAt),
	}
	if project.Statistics != nil {
		out.CommitCount = int(project.Statistics.CommitCount)
	}
	return out
}

func convertCommit(commit *gitlab.Commit) *model.Commit {
	out := &model.Commit{
		ID:          commit.ID,
		ShortID:     commit.ShortID,
		ProjectID:   commit.ProjectID,
		AuthorName:  commit.AuthorName,
		AuthorEmail: commit.AuthorEmail,
		CreatedAt:   lang.Deref(commit.CreatedAt),
		Title:       commit.Title,
		Message:     commit.Message,
		WebURL:      commit.WebURL,
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = lang.Deref(commit.CommittedDate)
	}
	if commit.Stats != nil {
		out.Stats = &model.CommitStats{
			Additions: commit.Stats.Additions,
			Deletions: commit.Stats.Deletions,
			Total:     commit.Stats.Total,
		}
	}
	return out
}

func convertEvent(e *gitlabEvent) *model.Event {
	out := &model.Event{
		ID:             e.ID,
		ProjectID:      e.ProjectID,
		ActionName:     e.ActionName,
		TargetType:     e.TargetType,
		TargetTitle:    e.TargetTitle,
		AuthorID:       lang.Check(e.AuthorID, e.Author.ID),
		AuthorName:     e.Author.Name,
		AuthorUsername: lang.Check(e.AuthorUsername, e.Author.Username),
		AuthorAvatar:   e.Author.AvatarURL,
		CreatedAt:      e.CreatedAt.In(time.UTC),
	}
	if e.PushData != nil {
		out.PushCommitCount = e.PushData.CommitCount
		out.PushCommitTitle = e.PushData.CommitTitle
		out.PushRef = e.PushData.Ref
	}
	return out
}
