package verification

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(clock *time.Time) (*Service, *fakeStore, *fakeLedger, *fakeMailer) {
	now := func() time.Time { return *clock }

	store := newFakeStore(now)
	ledger := &fakeLedger{now: now}
	mailer := &fakeMailer{}

	limiter := NewLimiter(ledger, time.Minute, 10)
	limiter.now = now

	service := NewService(DefaultConfig(), store, limiter, mailer)
	service.now = now

	return service, store, ledger, mailer
}

func TestIssueStoresRecordAndCountsSend(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, store, ledger, mailer := newTestService(&clock)
	ctx := context.Background()

	if err := service.Issue(ctx, "a@x.com", "10.0.0.1", "test-agent"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	record, err := store.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get after issue: %v", err)
	}
	if len(record.Code) != 6 {
		t.Errorf("code length = %d, want 6", len(record.Code))
	}
	if record.IsVerified || record.Attempts != 0 {
		t.Errorf("fresh record: verified=%v attempts=%d", record.IsVerified, record.Attempts)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "a@x.com" {
		t.Errorf("mailer sent = %v", mailer.sent)
	}
	if len(ledger.rows) != 1 {
		t.Errorf("ledger rows = %d, want 1", len(ledger.rows))
	}
}

func TestIssueResetsAttemptsAndVerified(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, store, _, _ := newTestService(&clock)
	ctx := context.Background()

	if err := service.Issue(ctx, "a@x.com", "", ""); err != nil {
		t.Fatalf("issue: %v", err)
	}
	for i := 0; i < 3; i++ {
		service.Verify(ctx, "a@x.com", "wrong!")
	}

	record, _ := store.Get(ctx, "a@x.com")
	if record.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", record.Attempts)
	}

	if err := service.Issue(ctx, "a@x.com", "", ""); err != nil {
		t.Fatalf("reissue: %v", err)
	}

	record, _ = store.Get(ctx, "a@x.com")
	if record.Attempts != 0 || record.IsVerified {
		t.Errorf("after reissue: attempts=%d verified=%v", record.Attempts, record.IsVerified)
	}
	if len(store.records) != 1 {
		t.Errorf("records = %d, want exactly one per email", len(store.records))
	}
}

func TestVerifyHappyPath(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, store, _, _ := newTestService(&clock)
	ctx := context.Background()

	service.Issue(ctx, "a@x.com", "", "")
	record, _ := store.Get(ctx, "a@x.com")

	if err := service.Verify(ctx, "a@x.com", record.Code); err != nil {
		t.Fatalf("verify with correct code: %v", err)
	}
	if !record.IsVerified {
		t.Error("record not marked verified")
	}
}

func TestVerifyNoRecord(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, _, _, _ := newTestService(&clock)

	err := service.Verify(context.Background(), "missing@x.com", "123456")
	if !errors.Is(err, ErrNoRecord) {
		t.Errorf("err = %v, want ErrNoRecord", err)
	}
}

func TestVerifyMismatchCountdownThenMaxAttempts(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, store, _, _ := newTestService(&clock)
	ctx := context.Background()

	service.Issue(ctx, "a@x.com", "", "")
	record, _ := store.Get(ctx, "a@x.com")

	for want := 4; want >= 1; want-- {
		err := service.Verify(ctx, "a@x.com", "000000x")

		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("attempt leaving %d: err = %v, want MismatchError", want, err)
		}
		if mismatch.Remaining != want {
			t.Errorf("remaining = %d, want %d", mismatch.Remaining, want)
		}
	}

	if err := service.Verify(ctx, "a@x.com", "000000x"); !errors.Is(err, ErrMaxAttempts) {
		t.Errorf("5th wrong attempt: err = %v, want ErrMaxAttempts", err)
	}

	// Even the correct code is rejected once the ceiling is hit.
	if err := service.Verify(ctx, "a@x.com", record.Code); !errors.Is(err, ErrMaxAttempts) {
		t.Errorf("correct code after ceiling: err = %v, want ErrMaxAttempts", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, store, _, _ := newTestService(&clock)
	ctx := context.Background()

	service.Issue(ctx, "a@x.com", "", "")
	record, _ := store.Get(ctx, "a@x.com")

	clock = clock.Add(10*time.Minute + time.Second)

	if err := service.Verify(ctx, "a@x.com", record.Code); !errors.Is(err, ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}

	// Expiry probes are not counted as attempts.
	if record.Attempts != 0 {
		t.Errorf("attempts after expiry probe = %d, want 0", record.Attempts)
	}
}

func TestIssueSendFailureKeepsRecordSkipsLedger(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, store, ledger, mailer := newTestService(&clock)
	ctx := context.Background()

	mailer.fail = true

	err := service.Issue(ctx, "a@x.com", "10.0.0.1", "")
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("err = %v, want ErrSendFailed", err)
	}

	// The record stays for a future reissue to overwrite, but the failed
	// dispatch must not consume send quota.
	if _, err := store.Get(ctx, "a@x.com"); err != nil {
		t.Errorf("record missing after failed dispatch: %v", err)
	}
	if len(ledger.rows) != 0 {
		t.Errorf("ledger rows = %d, want 0", len(ledger.rows))
	}
}

func TestIssueRateLimitedPerEmail(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, _, _, mailer := newTestService(&clock)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := service.Issue(ctx, "a@x.com", "", ""); err != nil {
			t.Fatalf("issue %d: %v", i+1, err)
		}
	}

	err := service.Issue(ctx, "a@x.com", "", "")

	var limited *RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("11th issue: err = %v, want RateLimitedError", err)
	}
	if limited.Scope != ScopePerEmail {
		t.Errorf("scope = %s, want %s", limited.Scope, ScopePerEmail)
	}
	if limited.RetryAfter <= 0 {
		t.Errorf("retry-after = %v, want positive", limited.RetryAfter)
	}
	if len(mailer.sent) != 10 {
		t.Errorf("sent = %d, want 10", len(mailer.sent))
	}
}

func TestIssueRateLimitedPerSource(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, _, _, _ := newTestService(&clock)
	ctx := context.Background()

	// 10 distinct emails from one address, each under its own limit.
	emails := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com",
		"f@x.com", "g@x.com", "h@x.com", "i@x.com", "j@x.com"}
	for _, email := range emails {
		if err := service.Issue(ctx, email, "10.0.0.1", ""); err != nil {
			t.Fatalf("issue for %s: %v", email, err)
		}
	}

	err := service.Issue(ctx, "k@x.com", "10.0.0.1", "")

	var limited *RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("11th email from same source: err = %v, want RateLimitedError", err)
	}
	if limited.Scope != ScopePerSource {
		t.Errorf("scope = %s, want %s", limited.Scope, ScopePerSource)
	}

	// A different source is unaffected.
	if err := service.Issue(ctx, "k@x.com", "10.0.0.2", ""); err != nil {
		t.Errorf("issue from fresh source: %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service, _, _, _ := newTestService(&clock)
	ctx := context.Background()

	service.Issue(ctx, "a@x.com", "", "")

	if err := service.Invalidate(ctx, "a@x.com"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := service.Verify(ctx, "a@x.com", "123456"); !errors.Is(err, ErrNoRecord) {
		t.Errorf("verify after invalidate: err = %v, want ErrNoRecord", err)
	}

	// Absent records are not an error.
	if err := service.Invalidate(ctx, "a@x.com"); err != nil {
		t.Errorf("repeated invalidate: %v", err)
	}
}
