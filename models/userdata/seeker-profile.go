package userdata

import "github.com/uptrace/bun"

// SeekerProfile is the job-seeker extension of a user account. Employer
// accounts carry no profile here; employer registration is disabled in this
// build.
type SeekerProfile struct {
	bun.BaseModel `bun:"userdata.seeker_profiles"`

	Id         int64  `bun:",pk,autoincrement" json:"id,omitempty"`
	UserId     int64  `bun:",notnull" json:"user_id,omitempty"`
	Resume     string `json:"resume,omitempty"`
	Skills     string `json:"skills,omitempty"`
	Experience string `json:"experience,omitempty"`
	Education  string `json:"education,omitempty"`
}
