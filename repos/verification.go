package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	models "github.com/kaobian-ai/kaobian-server/models/system"
	"github.com/kaobian-ai/kaobian-server/verification"
	"github.com/uptrace/bun"
)

// VerificationRepo implements verification.RecordStore on Postgres. The
// unique email column makes the upsert an atomic overwrite-in-place.
type VerificationRepo struct {
	db *bun.DB
}

func NewVerificationRepo(db *bun.DB) *VerificationRepo {
	return &VerificationRepo{db: db}
}

func (c *VerificationRepo) Upsert(ctx context.Context, email, code string) (*models.EmailVerification, error) {
	record := &models.EmailVerification{
		Email:     email,
		Code:      code,
		CreatedAt: time.Now(),
	}

	_, err := c.db.NewInsert().Model(record).
		On("CONFLICT (email) DO UPDATE").
		Set("code = EXCLUDED.code").
		Set("created_at = EXCLUDED.created_at").
		Set("is_verified = FALSE").
		Set("attempts = 0").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (c *VerificationRepo) Get(ctx context.Context, email string) (*models.EmailVerification, error) {
	record := new(models.EmailVerification)

	err := c.db.NewSelect().Model(record).Where("email = ?", email).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, verification.ErrNoRecord
		}
		return nil, err
	}

	return record, nil
}

func (c *VerificationRepo) Delete(ctx context.Context, email string) error {
	_, err := c.db.NewDelete().Model((*models.EmailVerification)(nil)).Where("email = ?", email).Exec(ctx)
	return err
}

func (c *VerificationRepo) MarkVerified(ctx context.Context, email string) error {
	_, err := c.db.NewUpdate().Model((*models.EmailVerification)(nil)).
		Set("is_verified = TRUE").
		Where("email = ?", email).
		Exec(ctx)
	return err
}

func (c *VerificationRepo) IncrementAttempts(ctx context.Context, email string) (int, error) {
	record := new(models.EmailVerification)

	_, err := c.db.NewUpdate().Model(record).
		Set("attempts = attempts + 1").
		Where("email = ?", email).
		Returning("attempts").
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return record.Attempts, nil
}
