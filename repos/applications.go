package repos

import (
	"context"

	models "github.com/kaobian-ai/kaobian-server/models/jobdata"
	"github.com/uptrace/bun"
)

type ApplicationRepo struct {
	db *bun.DB
}

func NewApplicationRepo(db *bun.DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

func (c *ApplicationRepo) HasApplied(ctx context.Context, jobId, seekerId int64) (bool, error) {
	count, err := c.db.NewSelect().Model((*models.Application)(nil)).
		Where("job_id = ?", jobId).
		Where("seeker_id = ?", seekerId).
		Count(ctx)
	return count > 0, err
}

func (c *ApplicationRepo) Add(ctx context.Context, application models.Application) (int64, error) {
	result, err := c.db.NewInsert().Model(&application).
		Column("job_id", "seeker_id", "cover_letter", "status").
		Ignore().
		Returning("id").
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	id, _ := result.LastInsertId()
	return id, nil
}

func (c *ApplicationRepo) ListForSeeker(ctx context.Context, seekerId int64) ([]models.Application, error) {
	applications := make([]models.Application, 0)

	err := c.db.NewSelect().Model(&applications).
		Relation("Job").
		Relation("Job.Employer").
		Where("seeker_id = ?", seekerId).
		Order("applied_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return applications, nil
}
