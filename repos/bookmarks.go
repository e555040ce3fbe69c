package repos

import (
	"context"

	models "github.com/kaobian-ai/kaobian-server/models/jobdata"
	"github.com/uptrace/bun"
)

type BookmarkRepo struct {
	db *bun.DB
}

func NewBookmarkRepo(db *bun.DB) *BookmarkRepo {
	return &BookmarkRepo{db: db}
}

// Toggle adds the bookmark when absent and removes it when present,
// returning whether the job ends up bookmarked.
func (c *BookmarkRepo) Toggle(ctx context.Context, jobId, seekerId int64) (bool, error) {
	result, err := c.db.NewDelete().Model((*models.Bookmark)(nil)).
		Where("job_id = ?", jobId).
		Where("seeker_id = ?", seekerId).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	if deleted, _ := result.RowsAffected(); deleted > 0 {
		return false, nil
	}

	bookmark := models.Bookmark{JobId: jobId, SeekerId: seekerId}
	_, err = c.db.NewInsert().Model(&bookmark).
		Column("job_id", "seeker_id").
		Ignore().
		Exec(ctx)
	if err != nil {
		return false, err
	}

	return true, nil
}

func (c *BookmarkRepo) IsBookmarked(ctx context.Context, jobId, seekerId int64) (bool, error) {
	count, err := c.db.NewSelect().Model((*models.Bookmark)(nil)).
		Where("job_id = ?", jobId).
		Where("seeker_id = ?", seekerId).
		Count(ctx)
	return count > 0, err
}

func (c *BookmarkRepo) ListForSeeker(ctx context.Context, seekerId int64) ([]models.Bookmark, error) {
	bookmarks := make([]models.Bookmark, 0)

	err := c.db.NewSelect().Model(&bookmarks).
		Relation("Job").
		Relation("Job.Employer").
		Where("seeker_id = ?", seekerId).
		Order("created_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return bookmarks, nil
}
