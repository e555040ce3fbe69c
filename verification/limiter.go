package verification

import (
	"context"
	"time"
)

// Decision is the outcome of a rate-limiter check.
type Decision struct {
	Allowed    bool
	Scope      string
	RetryAfter time.Duration
}

// Limiter counts confirmed sends per email and per source address inside a
// sliding window over the send ledger.
type Limiter struct {
	ledger SendLedger
	window time.Duration
	max    int
	now    func() time.Time
}

func NewLimiter(ledger SendLedger, window time.Duration, max int) *Limiter {
	return &Limiter{
		ledger: ledger,
		window: window,
		max:    max,
		now:    time.Now,
	}
}

// CanSend checks the source-address count before the per-email count, so one
// source spamming many distinct emails is blocked even when each email stays
// under its own limit. Both keys share the same window and ceiling.
func (l *Limiter) CanSend(ctx context.Context, email, sourceAddress string) (Decision, error) {
	threshold := l.now().Add(-l.window)

	if sourceAddress != "" {
		count, err := l.ledger.CountForSource(ctx, sourceAddress, threshold)
		if err != nil {
			return Decision{}, err
		}

		if count >= l.max {
			oldest, err := l.ledger.OldestForSource(ctx, sourceAddress, threshold)
			if err != nil {
				return Decision{}, err
			}

			return Decision{
				Allowed:    false,
				Scope:      ScopePerSource,
				RetryAfter: l.retryAfter(oldest),
			}, nil
		}
	}

	count, err := l.ledger.CountForEmail(ctx, email, threshold)
	if err != nil {
		return Decision{}, err
	}

	if count >= l.max {
		oldest, err := l.ledger.OldestForEmail(ctx, email, threshold)
		if err != nil {
			return Decision{}, err
		}

		return Decision{
			Allowed:    false,
			Scope:      ScopePerEmail,
			RetryAfter: l.retryAfter(oldest),
		}, nil
	}

	return Decision{Allowed: true}, nil
}

// RecordSend appends one ledger row. Callers invoke it only after a confirmed
// dispatch, so failed sends never consume quota.
func (l *Limiter) RecordSend(ctx context.Context, email, sourceAddress, clientInfo string) error {
	return l.ledger.Record(ctx, email, sourceAddress, clientInfo)
}

// retryAfter is the time until the oldest in-window send slides out of the
// window. The window just filled up, so oldest is never the zero time; the
// result is clamped to at least one second for a usable client message.
func (l *Limiter) retryAfter(oldest time.Time) time.Duration {
	remaining := oldest.Add(l.window).Sub(l.now())
	if remaining < time.Second {
		remaining = time.Second
	}
	return remaining.Truncate(time.Second)
}
