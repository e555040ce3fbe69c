package userdata

import "github.com/uptrace/bun"

type EmployerProfile struct {
	bun.BaseModel `bun:"userdata.employer_profiles"`

	Id                 int64  `bun:",pk,autoincrement" json:"id,omitempty"`
	UserId             int64  `bun:",notnull" json:"user_id,omitempty"`
	CompanyName        string `json:"company_name,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	CompanyWebsite     string `json:"company_website,omitempty"`
	Location           string `json:"location,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Industry           string `json:"industry,omitempty"`
}
