package jobdata

import (
	"time"

	"github.com/kaobian-ai/kaobian-server/models/userdata"
	"github.com/uptrace/bun"
)

const (
	JobTypeFullTime   = "full_time"
	JobTypePartTime   = "part_time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
)

type Category struct {
	bun.BaseModel `bun:"jobdata.categories"`

	Id   int64  `bun:",pk,autoincrement" json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Icon string `json:"icon,omitempty"`
}

type Job struct {
	bun.BaseModel `bun:"jobdata.jobs"`

	Id           int64     `bun:",pk,autoincrement" json:"id,omitempty"`
	Title        string    `json:"title,omitempty"`
	EmployerId   int64     `bun:",notnull" json:"employer_id,omitempty"`
	CategoryId   int64     `bun:",nullzero" json:"category_id,omitempty"`
	Description  string    `json:"description,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	Location     string    `json:"location,omitempty"`
	Salary       string    `json:"salary,omitempty"`
	JobType      string    `json:"job_type,omitempty"`
	PostedDate   time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"posted_date,omitempty"`
	Deadline     time.Time `bun:",nullzero" json:"deadline,omitempty"`
	IsActive     bool      `json:"is_active,omitempty"`

	Employer *userdata.EmployerProfile `bun:"rel:belongs-to,join:employer_id=id" json:"employer,omitempty"`
	Category *Category                 `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}
