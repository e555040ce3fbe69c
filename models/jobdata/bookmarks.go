package jobdata

import (
	"time"

	"github.com/uptrace/bun"
)

// Bookmark is unique per (job, seeker) pair; toggling an existing bookmark
// deletes the row.
type Bookmark struct {
	bun.BaseModel `bun:"jobdata.bookmarks"`

	Id          int64     `bun:",pk,autoincrement" json:"id,omitempty"`
	JobId       int64     `bun:",notnull" json:"job_id,omitempty"`
	SeekerId    int64     `bun:",notnull" json:"seeker_id,omitempty"`
	CreatedDate time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_date,omitempty"`

	Job *Job `bun:"rel:belongs-to,join:job_id=id" json:"job,omitempty"`
}
