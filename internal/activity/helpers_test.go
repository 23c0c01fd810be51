package activity

import (
	"time"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

func commit(id string, projectID int, author string, at time.Time) *model.Commit {
	return &model.Commit{
		ID:          id,
		ShortID:     id,
		ProjectID:   projectID,
		ProjectName: "project-" + string(rune('a'+projectID)),
		AuthorName:  author,
		CreatedAt:   at,
		Title:       "commit " + id,
	}
}

func withStats(c *model.Commit, add, del int) *model.Commit {
	c.Stats = &model.CommitStats{Additions: add, Deletions: del, Total: add + del}
	return c
}

func sampleCommits(now time.Time) []*model.Commit {
	return []*model.Commit{
		withStats(commit("c1", 1, "alice", now.Add(-time.Hour)), 10, 2),
		withStats(commit("c2", 1, "bob", now.Add(-26*time.Hour)), 5, 0),
		withStats(commit("c3", 2, "alice", now.Add(-27*time.Hour)), 0, 7),
		commit("c4", 3, "carol", now.Add(-5*24*time.Hour)),
		withStats(commit("c5", 2, "alice", now.Add(-5*24*time.Hour)), 1, 1),
	}
}
