package provider

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/gitpulse/internal/activity"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/model/interfaces"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/panjf2000/ants/v2"
)

const (
	searchLimit       = 5
	contributionsDays = 365
	projectURLPrefix  = "/dashboard/projects/"
)

// Fetcher loads activity data from a source-control provider
type Fetcher struct {
	provider interfaces.SourceControl
	pool     *ants.Pool
	now      func() time.Time
	log      logze.Logger
}

// NewFetcher creates a new fetcher, stats requests are limited by cfg.StatsWorkers
func NewFetcher(provider interfaces.SourceControl, cfg Config) (*Fetcher, error) {
	pool, err := ants.NewPool(lang.Check(cfg.StatsWorkers, defaultStatsWorkers))
	if err != nil {
		return nil, errm.Wrap(err, "failed to create pool")
	}
	return &Fetcher{
		provider: provider,
		pool:     pool,
		now:      time.Now,
		log:      logze.With("component", "fetcher"),
	}, nil
}

// Close releases workers of the stats pool
func (f *Fetcher) Close() error {
	f.pool.Release()
	return nil
}

// FetchCommits returns deduplicated commits of every branch of the selected projects in the filter window.
// A failure of one project is logged and the project contributes nothing.
// Result is sorted newest first.
func (f *Fetcher) FetchCommits(ctx context.Context, filter model.ActivityFilter) ([]*model.Commit, error) {
	timer := abstract.StartTimer()
	since, until := filter.Window(f.now())

	projects, err := f.selectProjects(ctx, filter.ProjectID)
	if err != nil {
		return nil, err
	}

	perProject := make([][]*model.Commit, len(projects))
	waiterSet := abstract.NewWaiterSet(f.log)
	for i, project := range projects {
		waiterSet.Add(ctx, func(ctx context.Context) error {
			perProject[i] = f.fetchProjectCommits(ctx, project, since, until)
			return nil
		})
	}
	if err := waiterSet.Await(ctx); err != nil {
		return nil, erro.Wrap(err, "failed to fetch commits")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var commits []*model.Commit
	for _, c := range perProject {
		commits = append(commits, c...)
	}

	slices.SortStableFunc(commits, func(a, b *model.Commit) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})

	if filter.WithStats {
		if err := f.LoadStats(ctx, commits); err != nil {
			return nil, err
		}
	}

	f.log.Debug("fetched commits", "projects", len(projects), "commits", len(commits),
		"period", filter.PeriodDays, "elapsed", timer.ElapsedTime().String())

	return commits, nil
}

// LoadStats loads line statistics with a separate request per commit.
// Each commit ID is requested once per call; a failed request leaves stats of that commit empty.
func (f *Fetcher) LoadStats(ctx context.Context, commits []*model.Commit) error {
	type key struct {
		projectID int
		id        string
	}
	pending := make(map[key][]*model.Commit)
	order := make([]key, 0, len(commits))
	for _, c := range commits {
		if c.Stats != nil {
			continue
		}
		k := key{projectID: c.ProjectID, id: c.ID}
		if _, ok := pending[k]; !ok {
			order = append(order, k)
		}
		pending[k] = append(pending[k], c)
	}
	if len(order) == 0 {
		return nil
	}

	loaded := abstract.NewSafeMap[key, *model.CommitStats]()

	var wg sync.WaitGroup
	for _, k := range order {
		wg.Add(1)
		err := f.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			detail, err := f.provider.GetCommit(ctx, k.projectID, k.id)
			if err != nil {
				f.log.Warn("cannot load commit stats", "project_id", k.projectID, "commit", k.id, "error", err)
				return
			}
			if detail.Stats != nil {
				loaded.Set(k, detail.Stats)
			}
		})
		if err != nil {
			wg.Done()
			return errm.Wrap(err, "failed to submit stats task")
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	for _, k := range order {
		stats, ok := loaded.Lookup(k)
		if !ok {
			continue
		}
		for _, c := range pending[k] {
			c.Stats = &model.CommitStats{Additions: stats.Additions, Deletions: stats.Deletions, Total: stats.Total}
		}
	}

	return nil
}

// FetchCommit returns a single commit with its statistics and diff
func (f *Fetcher) FetchCommit(ctx context.Context, projectID int, sha string) (*model.CommitDetail, error) {
	var (
		commit *model.Commit
		diffs  []*model.FileDiff
	)

	waiterSet := abstract.NewWaiterSet(f.log)
	waiterSet.Add(ctx, func(ctx context.Context) (err error) {
		commit, err = f.provider.GetCommit(ctx, projectID, sha)
		return err
	})
	waiterSet.Add(ctx, func(ctx context.Context) (err error) {
		diffs, err = f.provider.GetCommitDiff(ctx, projectID, sha)
		return err
	})
	if err := waiterSet.Await(ctx); err != nil {
		return nil, erro.Wrap(err, "failed to fetch commit")
	}

	return &model.CommitDetail{Commit: commit, Diffs: diffs}, nil
}

// FetchContributions returns contributions of a user per day and action since the given time
func (f *Fetcher) FetchContributions(ctx context.Context, userID int, since time.Time) (*model.UserContributions, error) {
	if since.IsZero() {
		since = f.now().AddDate(0, 0, -contributionsDays)
	}

	events, err := f.provider.ListEvents(ctx, model.EventFilter{UserID: userID, After: since})
	if err != nil {
		return nil, erro.Wrap(err, "failed to list user events")
	}

	data := activity.CollapseEvents(events, time.UTC)

	return &model.UserContributions{
		Data:  data,
		Stats: activity.ComputeUserStats(data),
	}, nil
}

// FetchPushSummary counts pushed commits and distinct pushers in the filter window using push events
func (f *Fetcher) FetchPushSummary(ctx context.Context, filter model.ActivityFilter) (*model.PushSummary, error) {
	now := f.now()

	// both bounds of the events API are exclusive dates
	events, err := f.provider.ListEvents(ctx, model.EventFilter{
		ProjectID: filter.ProjectID,
		Action:    "pushed",
		After:     now.AddDate(0, 0, -filter.PeriodDays),
		Before:    now.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, erro.Wrap(err, "failed to list push events")
	}

	summary := &model.PushSummary{GeneratedAt: now, Events: events}
	pushers := make(map[string]struct{})
	for _, e := range events {
		if filter.Contributor != model.AllContributors && e.AuthorName != filter.Contributor && e.AuthorUsername != filter.Contributor {
			continue
		}
		summary.Commits += e.PushCommitCount
		pushers[e.AuthorUsername] = struct{}{}
	}
	summary.Contributors = len(pushers)

	return summary, nil
}

// Search looks for projects, users and activity matching the query.
// Activity is searched only when the query is a known event action.
func (f *Fetcher) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewBadRequestError("Search query is required")
	}

	var (
		projects []*model.Project
		users    []*model.User
		events   []*model.Event
	)

	waiterSet := abstract.NewWaiterSet(f.log)
	waiterSet.Add(ctx, func(ctx context.Context) (err error) {
		projects, err = f.provider.ListProjects(ctx, model.ProjectFilter{Search: query, Membership: true, Limit: searchLimit})
		return err
	})
	waiterSet.Add(ctx, func(ctx context.Context) (err error) {
		users, err = f.provider.ListUsers(ctx, model.UserFilter{Search: query, Limit: searchLimit})
		return err
	})
	if action, ok := eventActions[strings.ToLower(query)]; ok {
		waiterSet.Add(ctx, func(ctx context.Context) (err error) {
			events, err = f.provider.ListEvents(ctx, model.EventFilter{Action: action, Limit: searchLimit})
			return err
		})
	}
	if err := waiterSet.Await(ctx); err != nil {
		return nil, erro.Wrap(err, "failed to search")
	}

	results := make([]model.SearchResult, 0, len(projects)+len(users)+len(events))
	for _, p := range projects {
		results = append(results, model.SearchResult{
			ID:        p.ID,
			Type:      model.SearchResultProject,
			Title:     p.Name,
			Subtitle:  p.Description,
			URL:       projectURLPrefix + fmt.Sprint(p.ID),
			AvatarURL: p.AvatarURL,
		})
	}
	for _, u := range users {
		results = append(results, model.SearchResult{
			ID:        u.ID,
			Type:      model.SearchResultUser,
			Title:     u.Name,
			Subtitle:  u.Username,
			URL:       "/dashboard/users/" + fmt.Sprint(u.ID),
			AvatarURL: u.AvatarURL,
		})
	}
	for _, e := range events {
		title := lang.Check(e.PushCommitTitle, lang.Check(e.TargetTitle, "Activity"))
		results = append(results, model.SearchResult{
			ID:        e.ID,
			Type:      model.SearchResultActivity,
			Title:     title,
			Subtitle:  e.AuthorName + " - " + e.CreatedAt.Format("2006-01-02"),
			URL:       projectURLPrefix + fmt.Sprint(e.ProjectID),
			AvatarURL: e.AuthorAvatar,
		})
	}

	return results, nil
}

// ListProjects returns membership projects sorted by name
func (f *Fetcher) ListProjects(ctx context.Context) ([]*model.Project, error) {
	projects, err := f.provider.ListProjects(ctx, model.ProjectFilter{Membership: true})
	if err != nil {
		return nil, erro.Wrap(err, "failed to list projects")
	}
	slices.SortStableFunc(projects, func(a, b *model.Project) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return projects, nil
}

// ListUsers returns active users sorted by name
func (f *Fetcher) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := f.provider.ListUsers(ctx, model.UserFilter{Active: true})
	if err != nil {
		return nil, erro.Wrap(err, "failed to list users")
	}
	slices.SortStableFunc(users, func(a, b *model.User) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return users, nil
}

// ProjectStats returns commit count, languages and contributors of every membership project.
// Missing languages or contributors of a project are logged and left empty.
func (f *Fetcher) ProjectStats(ctx context.Context) ([]*model.ProjectOverview, error) {
	projects, err := f.provider.ListProjects(ctx, model.ProjectFilter{Membership: true, Statistics: true})
	if err != nil {
		return nil, erro.Wrap(err, "failed to list projects")
	}

	result := make([]*model.ProjectOverview, len(projects))
	waiterSet := abstract.NewWaiterSet(f.log)
	for i, project := range projects {
		overview := &model.ProjectOverview{
			ID:             project.ID,
			Name:           project.Name,
			CommitsCount:   project.CommitCount,
			LastActivityAt: project.LastActivityAt,
			Contributors:   []model.ProjectContributor{},
			Languages:      map[string]float32{},
		}
		result[i] = overview

		waiterSet.Add(ctx, func(ctx context.Context) error {
			languages, err := f.provider.GetLanguages(ctx, project.ID)
			if err != nil {
				f.log.Warn("cannot get project languages", "project", project.Name, "error", err)
				return nil
			}
			overview.Languages = languages
			return nil
		})
		waiterSet.Add(ctx, func(ctx context.Context) error {
			contributors, err := f.provider.ListContributors(ctx, project.ID)
			if err != nil {
				f.log.Warn("cannot list project contributors", "project", project.Name, "error", err)
				return nil
			}
			overview.Contributors = contributors
			return nil
		})
	}
	if err := waiterSet.Await(ctx); err != nil {
		return nil, erro.Wrap(err, "failed to load project stats")
	}

	return result, nil
}

// ListEvents returns events of the last days, optionally of a single project
func (f *Fetcher) ListEvents(ctx context.Context, days, projectID int) ([]*model.Event, error) {
	events, err := f.provider.ListEvents(ctx, model.EventFilter{
		ProjectID: projectID,
		After:     f.now().AddDate(0, 0, -days),
	})
	if err != nil {
		return nil, erro.Wrap(err, "failed to list events")
	}
	return events, nil
}

func (f *Fetcher) selectProjects(ctx context.Context, projectID int) ([]*model.Project, error) {
	if projectID != model.AllProjects {
		project, err := f.provider.GetProject(ctx, projectID)
		if err != nil {
			return nil, erro.Wrap(err, "failed to get project")
		}
		return []*model.Project{project}, nil
	}

	projects, err := f.provider.ListProjects(ctx, model.ProjectFilter{Membership: true})
	if err != nil {
		return nil, erro.Wrap(err, "failed to list projects")
	}
	return projects, nil
}

// fetchProjectCommits returns deduplicated commits of all branches of a project, nil on failure
func (f *Fetcher) fetchProjectCommits(ctx context.Context, project *model.Project, since, until time.Time) []*model.Commit {
	branches, err := f.provider.ListBranches(ctx, project.ID)
	if err != nil {
		f.log.Err(err, "cannot list branches", "project", project.Name)
		return nil
	}

	perBranch := make([][]*model.Commit, len(branches))
	waiterSet := abstract.NewWaiterSet(f.log)
	for i, branch := range branches {
		waiterSet.Add(ctx, func(ctx context.Context) error {
			commits, err := f.provider.ListCommits(ctx, project.ID, model.CommitFilter{
				RefName: branch.Name,
				Since:   since,
				Until:   until,
			})
			if err != nil {
				return errm.Wrap(err, "branch "+branch.Name)
			}
			isDefault := branch.IsDefault || branch.Name == project.DefaultBranch
			for _, c := range commits {
				c.ProjectID = project.ID
				c.ProjectName = project.Name
				c.BranchName = branch.Name
				c.IsDefaultBranch = isDefault
			}
			perBranch[i] = commits
			return nil
		})
	}
	if err := waiterSet.Await(ctx); err != nil {
		f.log.Err(err, "cannot fetch project commits", "project", project.Name)
		return nil
	}

	var all []*model.Commit
	for _, commits := range perBranch {
		all = append(all, commits...)
	}

	return activity.Deduplicate(all)
}

// eventActions are search queries that are also valid event action filters
var eventActions = map[string]string{
	"approved":  "approved",
	"closed":    "closed",
	"commented": "commented",
	"created":   "created",
	"destroyed": "destroyed",
	"expired":   "expired",
	"joined":    "joined",
	"left":      "left",
	"merged":    "merged",
	"pushed":    "pushed",
	"reopened":  "reopened",
	"updated":   "updated",
}
