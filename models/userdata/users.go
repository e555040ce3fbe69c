package userdata

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"userdata.users"`

	Id          int64     `bun:",pk,autoincrement" json:"id,omitempty"`
	Username    string    `json:"username,omitempty"`
	Email       string    `json:"email,omitempty"`
	Password    string    `json:"-"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	IsJobSeeker bool      `json:"is_job_seeker,omitempty"`
	IsEmployer  bool      `json:"is_employer,omitempty"`
	CreatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`

	SeekerProfile *SeekerProfile `bun:"rel:has-one,join:id=user_id" json:"seeker_profile,omitempty"`
}

func (user *User) ToMap() map[string]string {
	return map[string]string{
		"{{user.id}}":       strconv.FormatInt(user.Id, 10),
		"{{user.username}}": user.Username,
		"{{user.email}}":    user.Email,
	}
}
