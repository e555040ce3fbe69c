package repos

import (
	"context"

	models "github.com/kaobian-ai/kaobian-server/models/jobdata"
	"github.com/uptrace/bun"
)

// JobFilter carries the optional search filters of the job list endpoint.
type JobFilter struct {
	Keyword    string
	Location   string
	CategoryId int64
	JobType    string
	Page       int
	PageSize   int
}

type JobRepo struct {
	db *bun.DB
}

func NewJobRepo(db *bun.DB) *JobRepo {
	return &JobRepo{db: db}
}

func (c *JobRepo) List(ctx context.Context, filter JobFilter) ([]models.Job, int, error) {
	jobs := make([]models.Job, 0)

	query := c.db.NewSelect().Model(&jobs).
		Relation("Employer").
		Relation("Category").
		Where("is_active = TRUE")

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("title ILIKE ?", pattern).WhereOr("description ILIKE ?", pattern)
		})
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.CategoryId > 0 {
		query = query.Where("category_id = ?", filter.CategoryId)
	}
	if filter.JobType != "" {
		query = query.Where("job_type = ?", filter.JobType)
	}

	total, err := query.
		Order("posted_date DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (c *JobRepo) Featured(ctx context.Context, limit int) ([]models.Job, error) {
	jobs := make([]models.Job, 0)

	err := c.db.NewSelect().Model(&jobs).
		Relation("Employer").
		Where("is_active = TRUE").
		Order("posted_date DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

func (c *JobRepo) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	job := new(models.Job)

	err := c.db.NewSelect().Model(job).
		Relation("Employer").
		Relation("Category").
		Where("job.id = ?", id).
		Where("is_active = TRUE").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return job, nil
}

func (c *JobRepo) Categories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)

	err := c.db.NewSelect().Model(&categories).Order("name ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return categories, nil
}
