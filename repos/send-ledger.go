package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	models "github.com/kaobian-ai/kaobian-server/models/system"
	"github.com/uptrace/bun"
)

// SendLedgerRepo implements verification.SendLedger over the append-only
// send_records table.
type SendLedgerRepo struct {
	db *bun.DB
}

func NewSendLedgerRepo(db *bun.DB) *SendLedgerRepo {
	return &SendLedgerRepo{db: db}
}

func (c *SendLedgerRepo) Record(ctx context.Context, email, sourceAddress, clientInfo string) error {
	record := &models.SendRecord{
		Email:         email,
		SentAt:        time.Now(),
		SourceAddress: sourceAddress,
		ClientInfo:    clientInfo,
	}

	_, err := c.db.NewInsert().Model(record).Exec(ctx)
	return err
}

func (c *SendLedgerRepo) CountForEmail(ctx context.Context, email string, since time.Time) (int, error) {
	return c.db.NewSelect().Model((*models.SendRecord)(nil)).
		Where("email = ?", email).
		Where("sent_at >= ?", since).
		Count(ctx)
}

func (c *SendLedgerRepo) CountForSource(ctx context.Context, sourceAddress string, since time.Time) (int, error) {
	return c.db.NewSelect().Model((*models.SendRecord)(nil)).
		Where("source_address = ?", sourceAddress).
		Where("sent_at >= ?", since).
		Count(ctx)
}

func (c *SendLedgerRepo) OldestForEmail(ctx context.Context, email string, since time.Time) (time.Time, error) {
	return c.oldest(ctx, "email", email, since)
}

func (c *SendLedgerRepo) OldestForSource(ctx context.Context, sourceAddress string, since time.Time) (time.Time, error) {
	return c.oldest(ctx, "source_address", sourceAddress, since)
}

func (c *SendLedgerRepo) oldest(ctx context.Context, column, value string, since time.Time) (time.Time, error) {
	record := new(models.SendRecord)

	err := c.db.NewSelect().Model(record).
		Column("sent_at").
		Where("? = ?", bun.Ident(column), value).
		Where("sent_at >= ?", since).
		Order("sent_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}

	return record.SentAt, nil
}

// PurgeOlderThan only touches rows strictly older than cutoff, so it is safe
// to run concurrently with writes.
func (c *SendLedgerRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := c.db.NewDelete().Model((*models.SendRecord)(nil)).
		Where("sent_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
