package persistence

import (
	"context"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/warehouse"
	"github.com/kars-hq/kars/modules/warehouse/infrastructure/persistence/models"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/repo"
)

const warehouseColumns = "id, name, address, created_at, updated_at"

type PgWarehouseRepository struct{}

func NewWarehouseRepository() warehouse.Repository {
	return &PgWarehouseRepository{}
}

func (r *PgWarehouseRepository) GetPaginated(ctx context.Context, params *warehouse.FindParams) ([]warehouse.Warehouse, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := "1=1"
	args := []interface{}{}
	if params != nil && strings.TrimSpace(params.Q) != "" {
		where = "(name ILIKE $1 OR address ILIKE $1)"
		args = append(args, "%"+strings.TrimSpace(params.Q)+"%")
	}

	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM warehouses WHERE "+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM warehouses WHERE %s ORDER BY id", warehouseColumns, where)
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []warehouse.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, count, nil
}

func (r *PgWarehouseRepository) GetByID(ctx context.Context, id uint) (warehouse.Warehouse, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return warehouse.Warehouse{}, err
	}

	row := tx.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM warehouses WHERE id = $1", warehouseColumns), id)
	w, err := scanWarehouse(row)
	if err != nil {
		if gerrors.Is(err, pgx.ErrNoRows) {
			return warehouse.Warehouse{}, warehouse.ErrNotFound
		}
		return warehouse.Warehouse{}, err
	}
	return w, nil
}

func (r *PgWarehouseRepository) Create(ctx context.Context, data warehouse.Warehouse) (warehouse.Warehouse, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return warehouse.Warehouse{}, err
	}

	var id uint
	if err := tx.QueryRow(
		ctx,
		`INSERT INTO warehouses (name, address) VALUES ($1, $2) RETURNING id`,
		data.Name(),
		data.Address(),
	).Scan(&id); err != nil {
		return warehouse.Warehouse{}, gerrors.Wrap(err, "failed to create warehouse")
	}
	return r.GetByID(ctx, id)
}

func (r *PgWarehouseRepository) Update(ctx context.Context, data warehouse.Warehouse) (warehouse.Warehouse, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return warehouse.Warehouse{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE warehouses SET name = $2, address = $3, updated_at = NOW() WHERE id = $1`,
		data.ID(),
		data.Name(),
		data.Address(),
	); err != nil {
		return warehouse.Warehouse{}, gerrors.Wrap(err, "failed to update warehouse")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *PgWarehouseRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id); err != nil {
		return gerrors.Wrap(err, "failed to delete warehouse")
	}
	return nil
}

func scanWarehouse(row pgx.Row) (warehouse.Warehouse, error) {
	var m models.Warehouse
	if err := row.Scan(&m.ID, &m.Name, &m.Address, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return warehouse.Warehouse{}, err
	}
	return warehouse.Hydrate(m.ID, m.Name, m.Address, m.CreatedAt, m.UpdatedAt), nil
}
