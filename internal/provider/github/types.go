package github

// repoRef addresses a repository by owner and name, the GitHub API has no numeric routes for most calls
type repoRef struct {
	owner         string
	name          string
	defaultBranch string
}

// actionNames maps GitHub event types to action names used by the dashboard
var actionNames = map[string]string{
	"PushEvent":                     "pushed to",
	"CreateEvent":                   "created",
	"DeleteEvent":                   "deleted",
	"IssuesEvent":                   "opened",
	"IssueCommentEvent":             "commented on",
	"PullRequestEvent":              "opened",
	"PullRequestReviewEvent":        "approved",
	"PullRequestReviewCommentEvent": "commented on",
	"CommitCommentEvent":            "commented on",
	"ForkEvent":                     "created",
	"WatchEvent":                    "joined",
}

// eventTypes maps action filters of the events API to GitHub event types
var eventTypes = map[string]string{
	"pushed":    "PushEvent",
	"created":   "CreateEvent",
	"destroyed": "DeleteEvent",
	"commented": "IssueCommentEvent",
	"merged":    "PullRequestEvent",
}
