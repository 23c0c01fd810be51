// Package activity has aggregation logic for commit and event activity data.
package activity

import "github.com/maxbolgarin/gitpulse/internal/model"

// Deduplicate collapses commits fetched from several branches of the same project
// into one entry per commit ID. Output keeps the first-occurrence order of IDs.
//
// On collision the entry from the default branch wins; otherwise the later entry
// replaces the earlier one.
func Deduplicate(commits []*model.Commit) []*model.Commit {
	index := make(map[string]int, len(commits))
	out := make([]*model.Commit, 0, len(commits))

	for _, c := range commits {
		if c == nil {
			continue
		}
		i, ok := index[c.ID]
		if !ok {
			index[c.ID] = len(out)
			out = append(out, c)
			continue
		}
		if out[i].IsDefaultBranch && !c.IsDefaultBranch {
			continue
		}
		out[i] = c
	}

	return out
}
