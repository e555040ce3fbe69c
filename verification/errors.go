package verification

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoRecord means no code was ever issued for the email, or the
	// record was removed; the caller should request a new code.
	ErrNoRecord = errors.New("no verification record for email")

	// ErrExpired means the stored code is past its validity window.
	// Checking an expired code does not consume an attempt.
	ErrExpired = errors.New("verification code expired")

	// ErrMaxAttempts means the attempt ceiling was reached; only issuing
	// a fresh code clears it.
	ErrMaxAttempts = errors.New("too many failed verification attempts")

	// ErrSendFailed means the mail transport rejected the dispatch. The
	// upserted record is kept so a retried issuance overwrites it.
	ErrSendFailed = errors.New("could not send verification email")
)

// Throttle scopes for RateLimitedError.
const (
	ScopePerSource = "per-source"
	ScopePerEmail  = "per-email"
)

type RateLimitedError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited (%s), retry after %ds", e.Scope, int(e.RetryAfter.Seconds()))
}

type MismatchError struct {
	Remaining int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verification code mismatch, %d attempts remaining", e.Remaining)
}
