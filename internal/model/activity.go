package model

import "time"

// AllProjects and AllContributors disable the corresponding filter
const (
	AllProjects     = 0
	AllContributors = ""
)

// ActivityFilter is the user-selected filter of an activity view
type ActivityFilter struct {
	PeriodDays   int
	ProjectID    int
	Contributor  string
	IncludeToday bool // Extends the window end by one day
	WithStats    bool // Loads additions/deletions per commit
}

// Window returns the lookback window of the filter relative to now
func (f ActivityFilter) Window(now time.Time) (since, until time.Time) {
	since = now.AddDate(0, 0, -f.PeriodDays)
	until = now
	if f.IncludeToday {
		until = until.AddDate(0, 0, 1)
	}
	return since, until
}

// Contribution is one date+type bucket of a single user's activity
type Contribution struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
	Type  string `json:"type"`
}

// Streaks are the current and the longest runs of consecutive active days
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ActiveDay is the day with the most contributions
type ActiveDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// UserStats is an aggregate over a contribution list
type UserStats struct {
	TotalContributions  int            `json:"totalContributions"`
	ContributionsByType map[string]int `json:"contributionsByType"`
	Streaks             Streaks        `json:"streaks"`
	MostActiveDay       ActiveDay      `json:"mostActiveDay"`
}

// UserContributions is a contribution list with its statistics
type UserContributions struct {
	Data  []Contribution `json:"data"`
	Stats UserStats      `json:"stats"`
}

// DateGroup holds the commits of one calendar day
type DateGroup struct {
	Label   string    `json:"label"`
	Date    time.Time `json:"date"`
	Commits []*Commit `json:"commits"`
}

// ProjectStat is the number of commits of one project
type ProjectStat struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Commits int    `json:"value"`
}

// ContributorStat is the number of commits of one author
type ContributorStat struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
}

// LineChangeStat is the sum of added or deleted lines of one project
type LineChangeStat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Totals are the overall numbers of a commit list
type Totals struct {
	Commits      int `json:"total_commits"`
	Contributors int `json:"total_contributors"`
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	Changes      int `json:"changes"`
}

// Summary is every derived view of one filtered commit list
type Summary struct {
	GeneratedAt     time.Time         `json:"timestamp"`
	Totals          Totals            `json:"totals"`
	Groups          []DateGroup       `json:"groups"`
	Projects        []ProjectStat     `json:"projects"`
	Contributors    []ContributorStat `json:"contributors"`
	TopContributors []ContributorStat `json:"top_contributors"`
	Additions       []LineChangeStat  `json:"additions"`
	Deletions       []LineChangeStat  `json:"deletions"`
	Commits         []*Commit         `json:"commits"`
}

// PushSummary is the activity overview built from push events
type PushSummary struct {
	GeneratedAt  time.Time `json:"timestamp"`
	Commits      int       `json:"total_commits"`
	Contributors int       `json:"total_contributors"`
	Events       []*Event  `json:"events"`
}

// SearchResultType tags a search result with its origin
type SearchResultType string

const (
	SearchResultProject  SearchResultType = "project"
	SearchResultUser     SearchResultType = "user"
	SearchResultActivity SearchResultType = "activity"
)

// SearchResult is one item of a merged search
type SearchResult struct {
	ID        int              `json:"id"`
	Type      SearchResultType `json:"type"`
	Title     string           `json:"title"`
	Subtitle  string           `json:"subtitle"`
	URL       string           `json:"url"`
	AvatarURL string           `json:"avatar_url"`
}
