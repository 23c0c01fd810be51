package activity

import (
	"cmp"
	"slices"
	"time"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

// DateLayout is the format of contribution dates
const DateLayout = "2006-01-02"

const oneDay = 24 * time.Hour

// CalculateStreaks returns the current and the longest runs of consecutive days.
// Input must contain only active days; duplicated and malformed dates are ignored.
// The current streak is the most recent run, even if it ended before today.
func CalculateStreaks(contributions []model.Contribution) model.Streaks {
	days := make([]time.Time, 0, len(contributions))
	seen := make(map[string]struct{}, len(contributions))
	for _, c := range contributions {
		if _, ok := seen[c.Date]; ok {
			continue
		}
		t, err := time.Parse(DateLayout, c.Date)
		if err != nil {
			continue
		}
		seen[c.Date] = struct{}{}
		days = append(days, t)
	}
	if len(days) == 0 {
		return model.Streaks{}
	}

	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	var longest, run int
	for i := range days {
		run++
		if i+1 == len(days) {
			break
		}
		if days[i+1].Sub(days[i]) > oneDay {
			longest = max(longest, run)
			run = 0
		}
	}

	return model.Streaks{
		Current: run,
		Longest: max(longest, run),
	}
}

// CollapseEvents turns raw events into one contribution per (date, action) pair.
// Dates are calendar days in loc; output is sorted by date, then by type.
func CollapseEvents(events []*model.Event, loc *time.Location) []model.Contribution {
	if loc == nil {
		loc = time.UTC
	}
	type key struct {
		date string
		typ  string
	}
	index := make(map[key]int)
	out := make([]model.Contribution, 0)

	for _, e := range events {
		if e == nil {
			continue
		}
		k := key{date: e.CreatedAt.In(loc).Format(DateLayout), typ: e.ActionName}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, model.Contribution{Date: k.date, Type: k.typ})
		}
		out[i].Count++
	}

	slices.SortStableFunc(out, func(a, b model.Contribution) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Type, b.Type))
	})

	return out
}

// ComputeUserStats aggregates a contribution list. Entries with non-positive count are skipped.
// Most active day sums every type of a date; the earliest date wins a tie.
func ComputeUserStats(contributions []model.Contribution) model.UserStats {
	stats := model.UserStats{
		ContributionsByType: make(map[string]int),
	}
	perDay := make(map[string]int)
	active := make([]model.Contribution, 0, len(contributions))

	for _, c := range contributions {
		if c.Count <= 0 {
			continue
		}
		active = append(active, c)
		stats.TotalContributions += c.Count
		stats.ContributionsByType[c.Type] += c.Count
		perDay[c.Date] += c.Count
	}

	for date, count := range perDay {
		best := stats.MostActiveDay
		if count > best.Count || (count == best.Count && date < best.Date) {
			stats.MostActiveDay = model.ActiveDay{Date: date, Count: count}
		}
	}
	stats.Streaks = CalculateStreaks(active)

	return stats
}
