package verification

import (
	"context"
	"errors"
	"time"

	"github.com/kaobian-ai/kaobian-server/models/system"
)

type fakeStore struct {
	records map[string]*system.EmailVerification
	now     func() time.Time
}

func newFakeStore(now func() time.Time) *fakeStore {
	return &fakeStore{records: make(map[string]*system.EmailVerification), now: now}
}

func (f *fakeStore) Upsert(ctx context.Context, email, code string) (*system.EmailVerification, error) {
	record := &system.EmailVerification{
		Email:     email,
		Code:      code,
		CreatedAt: f.now(),
	}
	f.records[email] = record
	return record, nil
}

func (f *fakeStore) Get(ctx context.Context, email string) (*system.EmailVerification, error) {
	record, ok := f.records[email]
	if !ok {
		return nil, ErrNoRecord
	}
	return record, nil
}

func (f *fakeStore) Delete(ctx context.Context, email string) error {
	delete(f.records, email)
	return nil
}

func (f *fakeStore) MarkVerified(ctx context.Context, email string) error {
	record, ok := f.records[email]
	if !ok {
		return ErrNoRecord
	}
	record.IsVerified = true
	return nil
}

func (f *fakeStore) IncrementAttempts(ctx context.Context, email string) (int, error) {
	record, ok := f.records[email]
	if !ok {
		return 0, ErrNoRecord
	}
	record.Attempts++
	return record.Attempts, nil
}

type fakeLedger struct {
	rows []system.SendRecord
	now  func() time.Time
}

func (f *fakeLedger) Record(ctx context.Context, email, sourceAddress, clientInfo string) error {
	sentAt := time.Now()
	if f.now != nil {
		sentAt = f.now()
	}
	f.rows = append(f.rows, system.SendRecord{
		Email:         email,
		SentAt:        sentAt,
		SourceAddress: sourceAddress,
		ClientInfo:    clientInfo,
	})
	return nil
}

func (f *fakeLedger) recordAt(email, sourceAddress string, at time.Time) {
	f.rows = append(f.rows, system.SendRecord{Email: email, SentAt: at, SourceAddress: sourceAddress})
}

func (f *fakeLedger) CountForEmail(ctx context.Context, email string, since time.Time) (int, error) {
	count := 0
	for _, row := range f.rows {
		if row.Email == email && !row.SentAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) CountForSource(ctx context.Context, sourceAddress string, since time.Time) (int, error) {
	count := 0
	for _, row := range f.rows {
		if row.SourceAddress == sourceAddress && !row.SentAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) OldestForEmail(ctx context.Context, email string, since time.Time) (time.Time, error) {
	var oldest time.Time
	for _, row := range f.rows {
		if row.Email == email && !row.SentAt.Before(since) {
			if oldest.IsZero() || row.SentAt.Before(oldest) {
				oldest = row.SentAt
			}
		}
	}
	return oldest, nil
}

func (f *fakeLedger) OldestForSource(ctx context.Context, sourceAddress string, since time.Time) (time.Time, error) {
	var oldest time.Time
	for _, row := range f.rows {
		if row.SourceAddress == sourceAddress && !row.SentAt.Before(since) {
			if oldest.IsZero() || row.SentAt.Before(oldest) {
				oldest = row.SentAt
			}
		}
	}
	return oldest, nil
}

func (f *fakeLedger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	kept := f.rows[:0]
	var deleted int64
	for _, row := range f.rows {
		if row.SentAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return deleted, nil
}

var errSmtpDown = errors.New("smtp connection refused")

type fakeMailer struct {
	sent []string
	fail bool
}

func (f *fakeMailer) SendCode(ctx context.Context, to, code string, validity time.Duration) error {
	if f.fail {
		return errSmtpDown
	}
	f.sent = append(f.sent, to)
	return nil
}
