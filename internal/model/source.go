package model

import (
	"time"
)

// ProviderConfig represents provider-specific configuration
type ProviderConfig struct {
	BaseURL string
	Token   string
	PerPage int
}

// Project represents a repository the caller has access to
type Project struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	DefaultBranch  string    `json:"default_branch"`
	WebURL         string    `json:"web_url"`
	AvatarURL      string    `json:"avatar_url"`
	CommitCount    int       `json:"commit_count"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Branch represents a named line of history within a project
type Branch struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"default"`
}

// User represents a user across different providers
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	State     string `json:"state"`
}

// Event represents an activity record of the source-control system (push, comment, etc.)
type Event struct {
	ID             int       `json:"id"`
	ProjectID      int       `json:"project_id"`
	ActionName     string    `json:"action_name"`
	TargetType     string    `json:"target_type"`
	TargetTitle    string    `json:"target_title"`
	AuthorID       int       `json:"author_id"`
	AuthorName     string    `json:"author_name"`
	AuthorUsername string    `json:"author_username"`
	AuthorAvatar   string    `json:"author_avatar_url"`
	CreatedAt      time.Time `json:"created_at"`

	PushCommitCount int    `json:"push_commit_count"`
	PushCommitTitle string `json:"push_commit_title"`
	PushRef         string `json:"push_ref"`
}

// ProjectContributor is a contributor of a project with its lifetime totals
type ProjectContributor struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
}

// ProjectOverview is a project with its languages and contributors
type ProjectOverview struct {
	ID             int                  `json:"id"`
	Name           string               `json:"name"`
	CommitsCount   int                  `json:"commits_count"`
	LastActivityAt time.Time            `json:"last_activity_at"`
	Contributors   []ProjectContributor `json:"contributors"`
	Languages      map[string]float32   `json:"languages"`
}

// ProjectFilter represents criteria for listing projects
type ProjectFilter struct {
	Search     string
	Membership bool
	Statistics bool
	Limit      int // Maximum number of results (0 = all pages)
}

// CommitFilter represents criteria for listing commits of a branch
type CommitFilter struct {
	RefName string
	Since   time.Time
	Until   time.Time
}

// UserFilter represents criteria for listing users
type UserFilter struct {
	Search string
	Active bool
	Limit  int
}

// EventFilter represents criteria for listing events
type EventFilter struct {
	UserID    int
	ProjectID int
	Action    string
	After     time.Time
	Before    time.Time
	Limit     int
}
