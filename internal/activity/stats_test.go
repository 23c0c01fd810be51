package activity

import (
	"testing"
	"time"

	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCommits(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	commits := sampleCommits(now)

	assert.Len(t, FilterCommits(commits, model.ActivityFilter{}), 5)
	assert.Len(t, FilterCommits(commits, model.ActivityFilter{ProjectID: 2}), 2)
	assert.Len(t, FilterCommits(commits, model.ActivityFilter{Contributor: "alice"}), 3)
	assert.Len(t, FilterCommits(commits, model.ActivityFilter{ProjectID: 1, Contributor: "alice"}), 1)
	assert.Empty(t, FilterCommits(commits, model.ActivityFilter{Contributor: "nobody"}))
}

func TestProjectStats(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	commits := append(sampleCommits(now), commit("c6", 4, "dave", now))

	stats := ProjectStats(commits)

	require.Len(t, stats, 4)
	assert.Equal(t, model.ProjectStat{ID: 1, Name: "project-b", Commits: 2}, stats[0])
	assert.Equal(t, model.ProjectStat{ID: 2, Name: "project-c", Commits: 2}, stats[1])
	assert.Equal(t, 3, stats[2].ID)
	assert.Equal(t, 4, stats[3].ID)

	t.Run("descending counts", func(t *testing.T) {
		total := 0
		for i, s := range stats {
			total += s.Commits
			if i > 0 {
				assert.LessOrEqual(t, s.Commits, stats[i-1].Commits)
			}
		}
		assert.Equal(t, len(commits), total)
	})

	t.Run("order does not depend on input order", func(t *testing.T) {
		reversed := make([]*model.Commit, 0, len(commits))
		for i := len(commits) - 1; i >= 0; i-- {
			reversed = append(reversed, commits[i])
		}
		assert.Equal(t, stats, ProjectStats(reversed))
	})
}

func TestContributorStats(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	commits := sampleCommits(now)

	for _, filter := range []model.ActivityFilter{{}, {ProjectID: 1}, {ProjectID: 2}, {Contributor: "alice"}} {
		filtered := FilterCommits(commits, filter)
		stats := ContributorStats(filtered)

		sum := 0
		for _, s := range stats {
			sum += s.Commits
		}
		assert.Equal(t, len(filtered), sum)
	}

	stats := ContributorStats(commits)
	require.Len(t, stats, 3)
	assert.Equal(t, model.ContributorStat{Name: "alice", Commits: 3}, stats[0])
	assert.Equal(t, "bob", stats[1].Name)
	assert.Equal(t, "carol", stats[2].Name)
}

func TestTopContributors(t *testing.T) {
	stats := make([]model.ContributorStat, 15)
	for i := range stats {
		stats[i] = model.ContributorStat{Name: string(rune('a' + i)), Commits: 15 - i}
	}

	top := TopContributors(stats, DefaultTopContributors)
	assert.Len(t, top, 10)
	assert.Equal(t, "a", top[0].Name)

	assert.Len(t, TopContributors(stats[:3], 10), 3)
	assert.Len(t, TopContributors(stats, 0), 15)
}

func TestLineChanges(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	commits := sampleCommits(now)

	additions, deletions := LineChanges(commits)

	t.Run("sums match commit list", func(t *testing.T) {
		wantAdd, gotAdd := 0, 0
		for _, c := range commits {
			wantAdd += c.Additions()
		}
		for _, s := range additions {
			gotAdd += s.Value
		}
		assert.Equal(t, wantAdd, gotAdd)
	})

	t.Run("zero values removed", func(t *testing.T) {
		// project 3 has no stats at all
		assert.Equal(t, []model.LineChangeStat{
			{Name: "project-b", Value: 15},
			{Name: "project-c", Value: 1},
		}, additions)
		assert.Equal(t, []model.LineChangeStat{
			{Name: "project-c", Value: 8},
			{Name: "project-b", Value: 2},
		}, deletions)
	})
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	commits := sampleCommits(now)

	s := Summarize(commits, model.ActivityFilter{Contributor: "alice"}, now, time.UTC)

	assert.Equal(t, now, s.GeneratedAt)
	assert.Equal(t, model.Totals{Commits: 3, Contributors: 1, Additions: 11, Deletions: 10, Changes: 21}, s.Totals)
	assert.Len(t, s.Commits, 3)
	assert.Len(t, s.Groups, 3)
	assert.Len(t, s.Projects, 2)
	assert.Equal(t, s.Contributors, s.TopContributors)

	empty := Summarize(nil, model.ActivityFilter{}, now, time.UTC)
	assert.Equal(t, model.Totals{}, empty.Totals)
	assert.Empty(t, empty.Groups)
}
