package activity

import (
	"cmp"
	"slices"
	"time"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

// DefaultTopContributors is the number of authors shown in contributor charts
const DefaultTopContributors = 10

// FilterCommits applies the project and contributor parts of the filter to a commit list.
// It returns the input slice untouched when both filters are disabled.
func FilterCommits(commits []*model.Commit, filter model.ActivityFilter) []*model.Commit {
	if filter.ProjectID == model.AllProjects && filter.Contributor == model.AllContributors {
		return commits
	}
	out := make([]*model.Commit, 0, len(commits))
	for _, c := range commits {
		if filter.ProjectID != model.AllProjects && c.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Contributor != model.AllContributors && c.AuthorName != filter.Contributor {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ProjectStats counts commits per project, sorted by count desc, then by name and id
func ProjectStats(commits []*model.Commit) []model.ProjectStat {
	index := make(map[int]int)
	stats := make([]model.ProjectStat, 0)

	for _, c := range commits {
		i, ok := index[c.ProjectID]
		if !ok {
			i = len(stats)
			index[c.ProjectID] = i
			stats = append(stats, model.ProjectStat{ID: c.ProjectID, Name: c.ProjectName})
		}
		stats[i].Commits++
	}

	slices.SortStableFunc(stats, func(a, b model.ProjectStat) int {
		return cmp.Or(
			cmp.Compare(b.Commits, a.Commits),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.ID, b.ID),
		)
	})

	return stats
}

// ContributorStats counts commits per author name, sorted by count desc, then by name
func ContributorStats(commits []*model.Commit) []model.ContributorStat {
	index := make(map[string]int)
	stats := make([]model.ContributorStat, 0)

	for _, c := range commits {
		i, ok := index[c.AuthorName]
		if !ok {
			i = len(stats)
			index[c.AuthorName] = i
			stats = append(stats, model.ContributorStat{Name: c.AuthorName})
		}
		stats[i].Commits++
	}

	slices.SortStableFunc(stats, func(a, b model.ContributorStat) int {
		return cmp.Or(cmp.Compare(b.Commits, a.Commits), cmp.Compare(a.Name, b.Name))
	})

	return stats
}

// TopContributors returns the first n entries of sorted contributor stats
func TopContributors(stats []model.ContributorStat, n int) []model.ContributorStat {
	if n <= 0 || len(stats) <= n {
		return stats
	}
	return stats[:n]
}

// LineChanges sums added and deleted lines per project.
// Projects with zero value are dropped from the corresponding list.
func LineChanges(commits []*model.Commit) (additions, deletions []model.LineChangeStat) {
	type sums struct {
		name string
		add  int
		del  int
	}
	index := make(map[int]int)
	all := make([]sums, 0)

	for _, c := range commits {
		i, ok := index[c.ProjectID]
		if !ok {
			i = len(all)
			index[c.ProjectID] = i
			all = append(all, sums{name: c.ProjectName})
		}
		all[i].add += c.Additions()
		all[i].del += c.Deletions()
	}

	additions = make([]model.LineChangeStat, 0, len(all))
	deletions = make([]model.LineChangeStat, 0, len(all))
	for _, s := range all {
		if s.add > 0 {
			additions = append(additions, model.LineChangeStat{Name: s.name, Value: s.add})
		}
		if s.del > 0 {
			deletions = append(deletions, model.LineChangeStat{Name: s.name, Value: s.del})
		}
	}

	byValue := func(a, b model.LineChangeStat) int {
		return cmp.Or(cmp.Compare(b.Value, a.Value), cmp.Compare(a.Name, b.Name))
	}
	slices.SortStableFunc(additions, byValue)
	slices.SortStableFunc(deletions, byValue)

	return additions, deletions
}

// ComputeTotals returns overall numbers of a commit list
func ComputeTotals(commits []*model.Commit) model.Totals {
	authors := make(map[string]struct{})
	var totals model.Totals
	for _, c := range commits {
		authors[c.AuthorName] = struct{}{}
		totals.Additions += c.Additions()
		totals.Deletions += c.Deletions()
		totals.Changes += c.TotalChanges()
	}
	totals.Commits = len(commits)
	totals.Contributors = len(authors)
	return totals
}

// Summarize filters commits and builds every derived view of the result
func Summarize(commits []*model.Commit, filter model.ActivityFilter, now time.Time, loc *time.Location) *model.Summary {
	filtered := FilterCommits(commits, filter)
	contributors := ContributorStats(filtered)
	additions, deletions := LineChanges(filtered)

	return &model.Summary{
		GeneratedAt:     now,
		Totals:          ComputeTotals(filtered),
		Groups:          GroupByDate(filtered, now, loc),
		Projects:        ProjectStats(filtered),
		Contributors:    contributors,
		TopContributors: TopContributors(contributors, DefaultTopContributors),
		Additions:       additions,
		Deletions:       deletions,
		Commits:         filtered,
	}
}
