// Package export writes commit lists as Parquet files using github.com/parquet-go/parquet-go.
package export

import (
	"io"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/parquet-go/parquet-go"
)

// ContentType is the media type of the produced files
const ContentType = "application/vnd.apache.parquet"

// CommitRow is one commit in the exported file, line stats are null when not loaded
type CommitRow struct {
	ID              string    `parquet:"id,snappy"`
	ProjectID       int64     `parquet:"project_id,snappy"`
	ProjectName     string    `parquet:"project_name,snappy,dict"`
	BranchName      string    `parquet:"branch_name,snappy,dict"`
	IsDefaultBranch bool      `parquet:"is_default_branch"`
	AuthorName      string    `parquet:"author_name,snappy,dict"`
	AuthorEmail     string    `parquet:"author_email,snappy,dict"`
	CreatedAt       time.Time `parquet:"created_at,snappy"`
	Title           string    `parquet:"title,snappy"`
	WebURL          string    `parquet:"web_url,snappy"`

	Additions *int32 `parquet:"additions,optional,snappy"`
	Deletions *int32 `parquet:"deletions,optional,snappy"`
	Total     *int32 `parquet:"total,optional,snappy"`
}

// ToRows converts commits to Parquet rows keeping the order
func ToRows(commits []*model.Commit) []CommitRow {
	rows := make([]CommitRow, 0, len(commits))
	for _, c := range commits {
		row := CommitRow{
			ID:              c.ID,
			ProjectID:       int64(c.ProjectID),
			ProjectName:     c.ProjectName,
			BranchName:      c.BranchName,
			IsDefaultBranch: c.IsDefaultBranch,
			AuthorName:      c.AuthorName,
			AuthorEmail:     c.AuthorEmail,
			CreatedAt:       c.CreatedAt.UTC(),
			Title:           c.Title,
			WebURL:          c.WebURL,
		}
		if c.Stats != nil {
			row.Additions = ptr32(c.Stats.Additions)
			row.Deletions = ptr32(c.Stats.Deletions)
			row.Total = ptr32(c.Stats.Total)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCommits writes commits as a single Parquet file to w
func WriteCommits(w io.Writer, commits []*model.Commit) error {
	writer := parquet.NewGenericWriter[CommitRow](w)

	if _, err := writer.Write(ToRows(commits)); err != nil {
		_ = writer.Close()
		return errm.Wrap(err, "failed to write commits")
	}

	// footer is written on close
	if err := writer.Close(); err != nil {
		return errm.Wrap(err, "failed to close parquet writer")
	}

	return nil
}

func ptr32(v int) *int32 {
	out := int32(v)
	return &out
}
