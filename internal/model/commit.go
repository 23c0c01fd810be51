package model

import "time"

// Commit represents one version-control change as seen on a branch of a project
type Commit struct {
	ID              string    `json:"id"`
	ShortID         string    `json:"short_id"`
	ProjectID       int       `json:"project_id"`
	ProjectName     string    `json:"project_name"`
	BranchName      string    `json:"branch_name"`
	IsDefaultBranch bool      `json:"is_default_branch"`
	AuthorName      string    `json:"author_name"`
	AuthorEmail     string    `json:"author_email"`
	CreatedAt       time.Time `json:"created_at"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	WebURL          string    `json:"web_url"`

	// Stats is loaded lazily with a separate request per commit
	Stats *CommitStats `json:"stats,omitempty"`
}

// CommitStats represents line-change statistics of a commit
type CommitStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
	Total     int `json:"total"`
}

// Additions returns the number of added lines or zero if stats are not loaded
func (c *Commit) Additions() int {
	if c.Stats == nil {
		return 0
	}
	return c.Stats.Additions
}

// Deletions returns the number of deleted lines or zero if stats are not loaded
func (c *Commit) Deletions() int {
	if c.Stats == nil {
		return 0
	}
	return c.Stats.Deletions
}

// TotalChanges returns the total number of changed lines or zero if stats are not loaded
func (c *Commit) TotalChanges() int {
	if c.Stats == nil {
		return 0
	}
	return c.Stats.Total
}

// FileDiff represents changes in a single file of a commit
type FileDiff struct {
	OldPath   string `json:"old_path"`
	NewPath   string `json:"new_path"`
	Diff      string `json:"diff"`
	IsNew     bool   `json:"new_file"`
	IsDeleted bool   `json:"deleted_file"`
	IsRenamed bool   `json:"renamed_file"`
}

// CommitDetail is a single commit with its statistics and diff
type CommitDetail struct {
	Commit *Commit     `json:"commit"`
	Diffs  []*FileDiff `json:"diffs"`
}
