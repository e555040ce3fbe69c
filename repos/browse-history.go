package repos

import (
	"context"

	models "github.com/kaobian-ai/kaobian-server/models/jobdata"
	"github.com/uptrace/bun"
)

type BrowseHistoryRepo struct {
	db *bun.DB
}

func NewBrowseHistoryRepo(db *bun.DB) *BrowseHistoryRepo {
	return &BrowseHistoryRepo{db: db}
}

func (c *BrowseHistoryRepo) Record(ctx context.Context, entry models.BrowseHistory) error {
	_, err := c.db.NewInsert().Model(&entry).
		Column("job_id", "seeker_id", "source_address", "client_info").
		Exec(ctx)
	return err
}

func (c *BrowseHistoryRepo) Recent(ctx context.Context, seekerId int64, limit int) ([]models.BrowseHistory, error) {
	history := make([]models.BrowseHistory, 0)

	err := c.db.NewSelect().Model(&history).
		Relation("Job").
		Relation("Job.Employer").
		Where("seeker_id = ?", seekerId).
		Order("browsed_date DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return history, nil
}
