package system

import (
	"time"

	"github.com/uptrace/bun"
)

// EmailVerification holds the single active verification code for an email
// address. The email column carries a unique constraint, so reissuing a code
// is always an overwrite of this row.
type EmailVerification struct {
	bun.BaseModel `bun:"system.email_verifications"`

	Email      string    `bun:",pk" json:"email,omitempty"`
	Code       string    `json:"-"`
	CreatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	IsVerified bool      `json:"is_verified,omitempty"`
	Attempts   int       `json:"attempts,omitempty"`
}

// Expired reports whether the code is past its validity window at the given
// instant.
func (v *EmailVerification) Expired(now time.Time, ttl time.Duration) bool {
	return now.After(v.CreatedAt.Add(ttl))
}
