package jobdata

import (
	"time"

	"github.com/uptrace/bun"
)

type BrowseHistory struct {
	bun.BaseModel `bun:"jobdata.browse_history"`

	Id            int64     `bun:",pk,autoincrement" json:"id,omitempty"`
	JobId         int64     `bun:",notnull" json:"job_id,omitempty"`
	SeekerId      int64     `bun:",notnull" json:"seeker_id,omitempty"`
	BrowsedDate   time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"browsed_date,omitempty"`
	SourceAddress string    `bun:",nullzero" json:"-"`
	ClientInfo    string    `bun:",nullzero" json:"-"`

	Job *Job `bun:"rel:belongs-to,join:job_id=id" json:"job,omitempty"`
}
