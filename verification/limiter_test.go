package verification

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllowsUnderCeiling(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	limiter := NewLimiter(ledger, time.Minute, 10)
	limiter.now = func() time.Time { return base }

	for i := 0; i < 9; i++ {
		ledger.recordAt("a@x.com", "10.0.0.1", base.Add(-time.Duration(i)*time.Second))
	}

	decision, err := limiter.CanSend(context.Background(), "a@x.com", "10.0.0.1")
	if err != nil {
		t.Fatalf("canSend: %v", err)
	}
	if !decision.Allowed {
		t.Errorf("10th send should be allowed, denied with scope %s", decision.Scope)
	}
	if decision.RetryAfter != 0 {
		t.Errorf("retry-after = %v, want 0", decision.RetryAfter)
	}
}

func TestLimiterDeniesPerEmailWithRetryAfter(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	limiter := NewLimiter(ledger, time.Minute, 10)
	limiter.now = func() time.Time { return base }

	// Oldest in-window row is 40s old, so the window frees up in 20s.
	for i := 0; i < 10; i++ {
		ledger.recordAt("a@x.com", "", base.Add(-40*time.Second).Add(time.Duration(i)*time.Second))
	}

	decision, err := limiter.CanSend(context.Background(), "a@x.com", "")
	if err != nil {
		t.Fatalf("canSend: %v", err)
	}
	if decision.Allowed {
		t.Fatal("11th send should be denied")
	}
	if decision.Scope != ScopePerEmail {
		t.Errorf("scope = %s, want %s", decision.Scope, ScopePerEmail)
	}
	if decision.RetryAfter != 20*time.Second {
		t.Errorf("retry-after = %v, want 20s", decision.RetryAfter)
	}
}

func TestLimiterChecksSourceBeforeEmail(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	limiter := NewLimiter(ledger, time.Minute, 10)
	limiter.now = func() time.Time { return base }

	// Ceiling reached on both keys; the per-source denial wins.
	for i := 0; i < 10; i++ {
		ledger.recordAt("a@x.com", "10.0.0.1", base.Add(-time.Duration(i)*time.Second))
	}

	decision, err := limiter.CanSend(context.Background(), "a@x.com", "10.0.0.1")
	if err != nil {
		t.Fatalf("canSend: %v", err)
	}
	if decision.Allowed || decision.Scope != ScopePerSource {
		t.Errorf("decision = %+v, want per-source denial", decision)
	}
}

func TestLimiterIgnoresRowsOutsideWindow(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	limiter := NewLimiter(ledger, time.Minute, 10)
	limiter.now = func() time.Time { return base }

	for i := 0; i < 10; i++ {
		ledger.recordAt("a@x.com", "10.0.0.1", base.Add(-2*time.Minute))
	}

	decision, err := limiter.CanSend(context.Background(), "a@x.com", "10.0.0.1")
	if err != nil {
		t.Fatalf("canSend: %v", err)
	}
	if !decision.Allowed {
		t.Error("sends outside the window should not count")
	}
}

func TestLedgerPurgeCountsDeletedRows(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{}
	ledger.recordAt("a@x.com", "", base.Add(-8*24*time.Hour))
	ledger.recordAt("b@x.com", "", base.Add(-7*24*time.Hour-time.Second))
	ledger.recordAt("c@x.com", "", base.Add(-time.Hour))

	deleted, err := ledger.PurgeOlderThan(context.Background(), base.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	if len(ledger.rows) != 1 || ledger.rows[0].Email != "c@x.com" {
		t.Errorf("remaining rows = %+v", ledger.rows)
	}

	// Idempotent: a second run deletes nothing.
	deleted, err = ledger.PurgeOlderThan(context.Background(), base.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("second purge: %v", err)
	}
	if deleted != 0 {
		t.Errorf("second purge deleted = %d, want 0", deleted)
	}
}
