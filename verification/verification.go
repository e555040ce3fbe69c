// Package verification implements the email verification-code lifecycle:
// issuing rate-limited codes, dispatching them over a mail transport, and
// validating submissions against the stored record.
package verification

import (
	"context"
	"time"

	"github.com/kaobian-ai/kaobian-server/models/system"
)

// RecordStore persists at most one verification record per email address.
type RecordStore interface {
	// Upsert overwrites the record for email (or creates it) with the new
	// code, is_verified=false, attempts=0 and created_at=now.
	Upsert(ctx context.Context, email, code string) (*system.EmailVerification, error)
	// Get returns ErrNoRecord when no record exists for email.
	Get(ctx context.Context, email string) (*system.EmailVerification, error)
	// Delete is a no-op when no record exists.
	Delete(ctx context.Context, email string) error
	MarkVerified(ctx context.Context, email string) error
	// IncrementAttempts bumps the counter by one and returns the new value.
	IncrementAttempts(ctx context.Context, email string) (int, error)
}

// SendLedger is the append-only log of confirmed dispatches that the rate
// limiter counts against.
type SendLedger interface {
	Record(ctx context.Context, email, sourceAddress, clientInfo string) error
	CountForEmail(ctx context.Context, email string, since time.Time) (int, error)
	CountForSource(ctx context.Context, sourceAddress string, since time.Time) (int, error)
	// OldestForEmail returns the zero time when no row matches.
	OldestForEmail(ctx context.Context, email string, since time.Time) (time.Time, error)
	OldestForSource(ctx context.Context, sourceAddress string, since time.Time) (time.Time, error)
	// PurgeOlderThan deletes rows strictly older than cutoff and returns
	// the count deleted.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Mailer delivers a verification code to an address. Implementations own
// their transport timeouts.
type Mailer interface {
	SendCode(ctx context.Context, to, code string, validity time.Duration) error
}

// Config is passed at construction; the engine keeps no ambient globals.
type Config struct {
	CodeLength  int
	CodeExpiry  time.Duration
	MaxAttempts int
	RateWindow  time.Duration
	MaxSends    int
}

// DefaultConfig mirrors the product defaults.
func DefaultConfig() Config {
	return Config{
		CodeLength:  6,
		CodeExpiry:  10 * time.Minute,
		MaxAttempts: 5,
		RateWindow:  time.Minute,
		MaxSends:    10,
	}
}
