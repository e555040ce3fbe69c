package repos

import (
	"context"

	models "github.com/kaobian-ai/kaobian-server/models/userdata"
	"github.com/uptrace/bun"
)

type UserRepo struct {
	db *bun.DB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (c *UserRepo) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)

	err := c.db.NewSelect().Model(user).Relation("SeekerProfile").Where(`"user"."id" = ?`, id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetByLogin matches the identifier against username and email.
func (c *UserRepo) GetByLogin(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	user := new(models.User)

	err := c.db.NewSelect().Model(user).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("username = ?", usernameOrEmail).WhereOr("email = ?", usernameOrEmail)
		}).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (c *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := c.db.NewSelect().Model((*models.User)(nil)).Where("email = ?", email).Count(ctx)
	return count > 0, err
}

func (c *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	count, err := c.db.NewSelect().Model((*models.User)(nil)).Where("username = ?", username).Count(ctx)
	return count > 0, err
}

// AddJobSeeker creates the user row and its seeker profile in one
// transaction.
func (c *UserRepo) AddJobSeeker(ctx context.Context, user models.User, profile models.SeekerProfile) (int64, error) {
	err := c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&user).
			Column("username", "email", "password", "first_name", "last_name", "is_job_seeker").
			Returning("id").
			Exec(ctx); err != nil {
			return err
		}

		profile.UserId = user.Id
		_, err := tx.NewInsert().Model(&profile).Exec(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	return user.Id, nil
}

func (c *UserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	_, err := c.db.NewUpdate().Model((*models.User)(nil)).
		Set("password = ?", passwordHash).
		Where("email = ?", email).
		Exec(ctx)
	return err
}

func (c *UserRepo) UserProfile(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)

	err := c.db.NewSelect().Model(user).ExcludeColumn("password").Relation("SeekerProfile").Where(`"user"."id" = ?`, id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (c *UserRepo) UpdateProfile(ctx context.Context, id int64, user models.User, profile models.SeekerProfile) error {
	return c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().Model(&user).
			Column("first_name", "last_name").
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewUpdate().Model(&profile).
			Column("skills", "experience", "education").
			Where("user_id = ?", id).
			Exec(ctx)
		return err
	})
}
