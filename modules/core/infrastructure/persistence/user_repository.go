package persistence

import (
	"context"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/kars-hq/kars/modules/core/domain/aggregates/user"
	"github.com/kars-hq/kars/modules/core/infrastructure/persistence/models"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/repo"
	"github.com/kars-hq/kars/pkg/workflow"
)

const userColumns = "id, email, name, role, is_admin, created_at, updated_at"

type PgUserRepository struct{}

func NewUserRepository() user.Repository {
	return &PgUserRepository{}
}

func (r *PgUserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"1=1"}
	args := []interface{}{}
	if params != nil && strings.TrimSpace(params.Q) != "" {
		where = append(where, "(email ILIKE $1 OR name ILIKE $1)")
		args = append(args, "%"+strings.TrimSpace(params.Q)+"%")
	}
	whereClause := strings.Join(where, " AND ")

	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE "+whereClause, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY id", userColumns, whereClause)
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, count, nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id uint) (user.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(strings.TrimSpace(email)))
}

func (r *PgUserRepository) getOne(ctx context.Context, cond string, arg interface{}) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}

	row := tx.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM users WHERE %s", userColumns, cond), arg)
	u, err := scanUser(row)
	if err != nil {
		if gerrors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PgUserRepository) Create(ctx context.Context, data user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}

	var id uint
	if err := tx.QueryRow(
		ctx,
		`INSERT INTO users (email, name, role, is_admin)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		data.Email(),
		data.Name(),
		string(data.Role()),
		data.IsAdmin(),
	).Scan(&id); err != nil {
		return user.User{}, gerrors.Wrap(err, "failed to create user")
	}
	return r.GetByID(ctx, id)
}

func (r *PgUserRepository) Update(ctx context.Context, data user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE users SET name = $2, role = $3, is_admin = $4, updated_at = NOW() WHERE id = $1`,
		data.ID(),
		data.Name(),
		string(data.Role()),
		data.IsAdmin(),
	); err != nil {
		return user.User{}, gerrors.Wrap(err, "failed to update user")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *PgUserRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return gerrors.Wrap(err, "failed to delete user")
	}
	return nil
}

func scanUser(row pgx.Row) (user.User, error) {
	var m models.User
	if err := row.Scan(&m.ID, &m.Email, &m.Name, &m.Role, &m.IsAdmin, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return user.User{}, err
	}
	return user.Hydrate(m.ID, m.Email, m.Name, workflow.Role(m.Role), m.IsAdmin, m.CreatedAt, m.UpdatedAt), nil
}
