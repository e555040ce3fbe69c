package jobdata

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ApplicationPending   = "pending"
	ApplicationReviewing = "reviewing"
	ApplicationAccepted  = "accepted"
	ApplicationRejected  = "rejected"
)

// Application is unique per (job, seeker) pair.
type Application struct {
	bun.BaseModel `bun:"jobdata.applications"`

	Id          int64     `bun:",pk,autoincrement" json:"id,omitempty"`
	JobId       int64     `bun:",notnull" json:"job_id,omitempty"`
	SeekerId    int64     `bun:",notnull" json:"seeker_id,omitempty"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	Status      string    `bun:",notnull,default:'pending'" json:"status,omitempty"`
	AppliedDate time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"applied_date,omitempty"`
	UpdatedDate time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_date,omitempty"`

	Job *Job `bun:"rel:belongs-to,join:job_id=id" json:"job,omitempty"`
}
