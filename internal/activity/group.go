package activity

import (
	"slices"
	"time"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

const (
	LabelToday     = "Today"
	LabelYesterday = "Yesterday"

	dateLabelLayout = "January 2, 2006"
)

// DateLabel returns "Today", "Yesterday" or a long-form date for t as seen in loc.
func DateLabel(t, now time.Time, loc *time.Location) string {
	day := startOfDay(t, loc)
	today := startOfDay(now, loc)

	switch {
	case day.Equal(today):
		return LabelToday
	case day.Equal(today.AddDate(0, 0, -1)):
		return LabelYesterday
	default:
		return day.Format(dateLabelLayout)
	}
}

// GroupByDate partitions commits by calendar day in loc. Every commit lands in exactly one group.
// Groups are ordered by date, newest first; commits inside a group keep the input order.
func GroupByDate(commits []*model.Commit, now time.Time, loc *time.Location) []model.DateGroup {
	if loc == nil {
		loc = time.Local
	}

	index := make(map[time.Time]int)
	groups := make([]model.DateGroup, 0)

	for _, c := range commits {
		day := startOfDay(c.CreatedAt, loc)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, model.DateGroup{
				Label: DateLabel(c.CreatedAt, now, loc),
				Date:  day,
			})
		}
		groups[i].Commits = append(groups[i].Commits, c)
	}

	slices.SortStableFunc(groups, func(a, b model.DateGroup) int {
		return b.Date.Compare(a.Date)
	})

	return groups
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
