package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/model/interfaces"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"golang.org/x/oauth2"
)

var _ interfaces.SourceControl = (*Provider)(nil)

const (
	defaultBaseURL = "https://github.com"
	defaultPerPage = 100
)

// Provider implements the SourceControl interface for GitHub
type Provider struct {
	client  *github.Client
	config  model.ProviderConfig
	perPage int
	repos   *abstract.SafeMap[int, repoRef]
	logger  logze.Logger
}

// New creates a new GitHub provider
func New(config model.ProviderConfig) (*Provider, error) {
	if config.Token == "" {
		return nil, errm.New("GitHub token is required")
	}
	log := logze.With("provider", "github", "component", "provider")

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: config.Token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	client := github.NewClient(tc)

	// GitHub Enterprise
	if config.BaseURL != "" && config.BaseURL != defaultBaseURL {
		var err error
		client, err = github.NewClient(tc).WithEnterpriseURLs(config.BaseURL, config.BaseURL)
		if err != nil {
			return nil, errm.Wrap(err, "failed to create GitHub Enterprise client")
		}
	}

	return &Provider{
		client:  client,
		config:  config,
		perPage: lang.Check(config.PerPage, defaultPerPage),
		repos:   abstract.NewSafeMap[int, repoRef](),
		logger:  log,
	}, nil
}

// ListProjects retrieves repositories of the authenticated user
func (p *Provider) ListProjects(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error) {
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        "pushed",
		ListOptions: github.ListOptions{PerPage: p.perPage},
	}
	if filter.Membership {
		opts.Affiliation = "owner,collaborator,organization_member"
	}

	var result []*model.Project
	for {
		repos, resp, err := p.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, classify(err, resp, "failed to list repositories")
		}
		for _, repo := range repos {
			if filter.Search != "" && !strings.Contains(strings.ToLower(repo.GetName()), strings.ToLower(filter.Search)) {
				continue
			}
			result = append(result, p.convertRepo(repo))
			if filter.Limit > 0 && len(result) == filter.Limit {
				return result, nil
			}
		}
		if resp.NextPage == 0 {
			return result, nil
		}
		opts.Page = resp.NextPage
	}
}

// GetProject retrieves a repository by its numeric ID
func (p *Provider) GetProject(ctx context.Context, projectID int) (*model.Project, error) {
	repo, resp, err := p.client.Repositories.GetByID(ctx, int64(projectID))
	if err != nil {
		return nil, classify(err, resp, "failed to get repository")
	}
	return p.convertRepo(repo), nil
}

// ListBranches retrieves all branches of a repository
func (p *Provider) ListBranches(ctx context.Context, projectID int) ([]*model.Branch, error) {
	ref, err := p.resolve(ctx, projectID)
	if err != nil {
		return nil, err
	}

	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: p.perPage}}

	var result []*model.Branch
	for {
		branches, resp, err := p.client.Repositories.ListBranches(ctx, ref.owner, ref.name, opts)
		if err != nil {
			return nil, classify(err, resp, "failed to list branches")
		}
		for _, b := range branches {
			result = append(result, &model.Branch{
				Name:      b.GetName(),
				IsDefault: b.GetName() == ref.defaultBranch,
			})
		}
		if resp.NextPage == 0 {
			return result, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListContributors retrieves contributors of a repository
func (p *Provider) ListContributors(ctx context.Context, projectID int) ([]model.ProjectContributor, error) {
	ref, err := p.resolve(ctx, projectID)
	if err != nil {
		return nil, err
	}

	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: p.perPage}}
	contributors, resp, err := p.client.Repositories.ListContributors(ctx, ref.owner, ref.name, opts)
	if err != nil {
		return nil, classify(err, resp, "failed to list contributors")
	}

	result := make([]model.ProjectContributor, 0, len(contributors))
	for _, c := range contributors {
		result = append(result, model.ProjectContributor{
			Name:    c.GetLogin(),
			Commits: c.GetContributions(),
		})
	}
	return result, nil
}

// GetLanguages retrieves languages of a repository converted from bytes to percents
func (p *Provider) GetLanguages(ctx context.Context, projectID int) (map[string]float32, error) {
	ref, err := p.resolve(ctx, projectID)
	if err != nil {
		return nil, err
	}

	languages, resp, err := p.client.Repositories.ListLanguages(ctx, ref.owner, ref.name)
	if err != nil {
		return nil, classify(err, resp, "failed to list languages")
	}

	var total int
	for _, size := range languages {
		total += size
	}
	result := make(map[string]float32, len(languages))
	for name, size := range languages {
		if total > 0 {
			result[name] = float32(size) * 100 / float32(total)
		}
	}
	return result, nil
}

// ListCommits retrieves commits of one branch in the given window
func (p *Provider) ListCommits(ctx context.Context, projectID int, filter model.CommitFilter) ([]*model.Commit, error) {
	ref, err := p.resolve(ctx, projectID)
	if err != nil {
		return nil, err
	}

	opts := &github.CommitsListOptions{
		SHA:         filter.RefName,
		Since:       filter.Since,
		Until:       filter.Until,
		ListOptions: github.ListOptions{PerPage: p.perPage},
	}

	var result []*model.Commit
	for {
		commits, resp, err := p.client.Repositories.ListCommits(ctx, ref.owner, ref.name, opts)
		if err != nil {
			return nil, classify(err, resp, "failed to list commits")
		}
		for _, c := range commits {
			commit := convertCommit(c)
			commit.ProjectID = projectID
			commit.ProjectName = ref.name
			commit.BranchName = filter.RefName
			result = append(result, commit)
		}
		if resp.NextPage == 0 {
			return result, nil
		}
		opts.Page = resp.NextPage
	}
}

// GetCommit retrieves a single commit with its statistics
func (p *Provider) GetCommit(ctx context.Context, projectID int, sha string) (*model.Commit, error) {
	c, _, err := p.getCommit(ctx, projectID, sha)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCommitDiff retrieves file patches of a single commit
func (p *Provider) GetCommitDiff(ctx context.Context, projectID int, sha string) ([]*model.FileDiff, error) {
	_, files, err := p.getCommit(ctx, projectID, sha)
	if err != nil {
		return nil, err
	}

	result := make([]*model.FileDiff, 0, len(files))
	for _, f := range files {
		result = append(result, &model.FileDiff{
			OldPath:   lang.Check(f.GetPreviousFilename(), f.GetFilename()),
			NewPath:   f.GetFilename(),
			Diff:      f.GetPatch(),
			IsNew:     f.GetStatus() == "added",
			IsDeleted: f.GetStatus() == "removed",
			IsRenamed: f.GetStatus() == "renamed",
		})
	}
	return result, nil
}

// ListUsers searches users when a query is set, otherwise lists users of the instance
func (p *Provider) ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	limit := lang.Check(filter.Limit, p.perPage)

	var users []*github.User
	if filter.Search != "" {
		res, resp, err := p.client.Search.Users(ctx, filter.Search, &github.SearchOptions{
			ListOptions: github.ListOptions{PerPage: limit},
		})
		if err != nil {
			return nil, classify(err, resp, "failed to search users")
		}
		users = res.Users
	} else {
		list, resp, err := p.client.Users.ListAll(ctx, &github.UserListOptions{
			ListOptions: github.ListOptions{PerPage: limit},
		})
		if err != nil {
			return nil, classify(err, resp, "failed to list users")
		}
		users = list
	}

	result := make([]*model.User, 0, len(users))
	for _, u := range users {
		result = append(result, &model.User{
			ID:        int(u.GetID()),
			Username:  u.GetLogin(),
			Name:      lang.Check(u.GetName(), u.GetLogin()),
			AvatarURL: u.GetAvatarURL(),
			State:     "active",
		})
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListEvents retrieves events of a user, of a repository or of the authenticated user.
// GitHub has no date filters for events, the window is applied locally.
func (p *Provider) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	opts := &github.ListOptions{PerPage: p.perPage}

	var (
		events []*github.Event
		resp   *github.Response
		err    error
	)

	switch {
	case filter.ProjectID != 0:
		ref, rerr := p.resolve(ctx, filter.ProjectID)
		if rerr != nil {
			return nil, rerr
		}
		events, resp, err = p.client.Activity.ListRepositoryEvents(ctx, ref.owner, ref.name, opts)

	default:
		login := ""
		if filter.UserID != 0 {
			user, uresp, uerr := p.client.Users.GetByID(ctx, int64(filter.UserID))
			if uerr != nil {
				return nil, classify(uerr, uresp, "failed to get user")
			}
			login = user.GetLogin()
		} else {
			user, uresp, uerr := p.client.Users.Get(ctx, "")
			if uerr != nil {
				return nil, classify(uerr, uresp, "failed to get current user")
			}
			login = user.GetLogin()
		}
		events, resp, err = p.client.Activity.ListEventsPerformedByUser(ctx, login, false, opts)
	}
	if err != nil {
		return nil, classify(err, resp, "failed to list events")
	}

	wantType := eventTypes[filter.Action]

	result := make([]*model.Event, 0, len(events))
	for _, e := range events {
		if wantType != "" && e.GetType() != wantType {
			continue
		}
		created := e.GetCreatedAt().Time
		if !filter.After.IsZero() && !created.After(filter.After) {
			continue
		}
		if !filter.Before.IsZero() && !created.Before(filter.Before) {
			continue
		}
		result = append(result, convertEvent(e))
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (p *Provider) getCommit(ctx context.Context, projectID int, sha string) (*model.Commit, []*github.CommitFile, error) {
	ref, err := p.resolve(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	c, resp, err := p.client.Repositories.GetCommit(ctx, ref.owner, ref.name, sha, &github.ListOptions{PerPage: p.perPage})
	if err != nil {
		return nil, nil, classify(err, resp, "failed to get commit")
	}

	commit := convertCommit(c)
	commit.ProjectID = projectID
	commit.ProjectName = ref.name
	return commit, c.Files, nil
}

// resolve returns owner and name of a repository by its numeric ID, results are remembered
func (p *Provider) resolve(ctx context.Context, projectID int) (repoRef, error) {
	if ref, ok := p.repos.Lookup(projectID); ok {
		return ref, nil
	}
	repo, resp, err := p.client.Repositories.GetByID(ctx, int64(projectID))
	if err != nil {
		return repoRef{}, classify(err, resp, "failed to get repository")
	}
	p.convertRepo(repo)
	return p.repos.Get(projectID), nil
}

func (p *Provider) convertRepo(repo *github.Repository) *model.Project {
	id := int(repo.GetID())
	p.repos.Set(id, repoRef{
		owner:         repo.GetOwner().GetLogin(),
		name:          repo.GetName(),
		defaultBranch: repo.GetDefaultBranch(),
	})

	return &model.Project{
		ID:             id,
		Name:           repo.GetName(),
		Description:    repo.GetDescription(),
		DefaultBranch:  repo.GetDefaultBranch(),
		WebURL:         repo.GetHTMLURL(),
		AvatarURL:      repo.GetOwner().GetAvatarURL(),
		LastActivityAt: repo.GetPushedAt().Time,
	}
}

func convertCommit(c *github.RepositoryCommit) *model.Commit {
	message := c.GetCommit().GetMessage()
	title, _, _ := strings.Cut(message, "\n")
	sha := c.GetSHA()

	out := &model.Commit{
		ID:          sha,
		ShortID:     sha[:min(8, len(sha))],
		AuthorName:  c.GetCommit().GetAuthor().GetName(),
		AuthorEmail: c.GetCommit().GetAuthor().GetEmail(),
		CreatedAt:   c.GetCommit().GetAuthor().GetDate().Time,
		Title:       strings.TrimSpace(title),
		Message:     message,
		WebURL:      c.GetHTMLURL(),
	}
	if c.Stats != nil {
		out.Stats = &model.CommitStats{
			Additions: c.Stats.GetAdditions(),
			Deletions: c.Stats.GetDeletions(),
			Total:     c.Stats.GetTotal(),
		}
	}
	return out
}

func convertEvent(e *github.Event) *model.Event {
	id, _ := strconv.Atoi(e.GetID())
	out := &model.Event{
		ID:             id,
		ProjectID:      int(e.GetRepo().GetID()),
		ActionName:     lang.Check(actionNames[e.GetType()], e.GetType()),
		TargetType:     e.GetType(),
		TargetTitle:    e.GetRepo().GetName(),
		AuthorID:       int(e.GetActor().GetID()),
		AuthorName:     e.GetActor().GetLogin(),
		AuthorUsername: e.GetActor().GetLogin(),
		AuthorAvatar:   e.GetActor().GetAvatarURL(),
		CreatedAt:      e.GetCreatedAt().Time,
	}

	if e.GetType() == "PushEvent" {
		payload, err := e.ParsePayload()
		if push, ok := payload.(*github.PushEvent); err == nil && ok {
			out.PushCommitCount = push.GetSize()
			out.PushRef = strings.TrimPrefix(push.GetRef(), "refs/heads/")
			if len(push.Commits) > 0 {
				title, _, _ := strings.Cut(push.Commits[len(push.Commits)-1].GetMessage(), "\n")
				out.PushCommitTitle = title
			}
		}
	}
	return out
}

func classify(err error, resp *github.Response, message string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errm.Wrap(err, message)
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return model.NewStatusError(http.StatusTooManyRequests, message, err)
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return model.NewStatusError(errResp.Response.StatusCode, message, err)
	}
	if resp != nil && resp.Response != nil {
		return model.NewStatusError(resp.StatusCode, message, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return model.NewNetworkError(err)
	}
	return errm.Wrap(err, message)
}
