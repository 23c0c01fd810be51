package activity

import (
	"testing"
	"time"

	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateLabel(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2024, 3, 10, 1, 30, 0, 0, loc)

	assert.Equal(t, LabelToday, DateLabel(now.Add(-time.Hour), now, loc))
	assert.Equal(t, LabelYesterday, DateLabel(now.Add(-2*time.Hour), now, loc))
	assert.Equal(t, "March 8, 2024", DateLabel(now.Add(-30*time.Hour), now, loc))

	// 2024-03-09 23:00 UTC is already Sunday in UTC+3
	assert.Equal(t, LabelToday, DateLabel(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC), now, loc))
}

func TestDateLabelMonthBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, LabelYesterday, DateLabel(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC), now, time.UTC))
	assert.Equal(t, "February 28, 2024", DateLabel(time.Date(2024, 2, 28, 8, 0, 0, 0, time.UTC), now, time.UTC))
}

func TestGroupByDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	commits := sampleCommits(now)

	groups := GroupByDate(commits, now, time.UTC)

	t.Run("partition is complete and disjoint", func(t *testing.T) {
		seen := map[*model.Commit]int{}
		for _, g := range groups {
			for _, c := range g.Commits {
				seen[c]++
			}
		}
		require.Len(t, seen, len(commits))
		for _, c := range commits {
			assert.Equal(t, 1, seen[c], c.ID)
		}
	})

	t.Run("labels and order", func(t *testing.T) {
		require.Len(t, groups, 3)
		assert.Equal(t, LabelToday, groups[0].Label)
		assert.Equal(t, LabelYesterday, groups[1].Label)
		assert.Equal(t, "March 5, 2024", groups[2].Label)
		for i := 1; i < len(groups); i++ {
			assert.True(t, groups[i].Date.Before(groups[i-1].Date))
		}
	})

	t.Run("sorted by date even if input is not", func(t *testing.T) {
		reversed := []*model.Commit{commits[4], commits[2], commits[0]}
		groups := GroupByDate(reversed, now, time.UTC)
		require.Len(t, groups, 3)
		assert.Equal(t, LabelToday, groups[0].Label)
		assert.Equal(t, "March 5, 2024", groups[2].Label)
	})

	t.Run("keeps input order inside group", func(t *testing.T) {
		yesterday := groups[1]
		require.Len(t, yesterday.Commits, 2)
		assert.Equal(t, "c2", yesterday.Commits[0].ID)
		assert.Equal(t, "c3", yesterday.Commits[1].ID)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, GroupByDate(nil, now, nil))
	})
}
