package persistence

import (
	"context"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	"github.com/kars-hq/kars/modules/warehouse/infrastructure/persistence/models"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/repo"
)

const itemColumns = "id, warehouse_id, code, name, quantity, unit_price, memo, created_at, updated_at"

type PgItemRepository struct{}

func NewItemRepository() item.Repository {
	return &PgItemRepository{}
}

func (r *PgItemRepository) GetPaginated(ctx context.Context, params *item.FindParams) ([]item.Item, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"1=1"}
	args := []interface{}{}
	argPos := 1
	if params != nil && params.WarehouseID != 0 {
		where = append(where, fmt.Sprintf("warehouse_id = $%d", argPos))
		args = append(args, params.WarehouseID)
		argPos++
	}
	if params != nil && strings.TrimSpace(params.Q) != "" {
		where = append(where, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+strings.TrimSpace(params.Q)+"%")
	}
	whereClause := strings.Join(where, " AND ")

	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM items WHERE "+whereClause, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM items WHERE %s ORDER BY id", itemColumns, whereClause)
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []item.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, count, nil
}

func (r *PgItemRepository) GetByID(ctx context.Context, id uint) (item.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return item.Item{}, err
	}

	row := tx.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM items WHERE id = $1", itemColumns), id)
	i, err := scanItem(row)
	if err != nil {
		if gerrors.Is(err, pgx.ErrNoRows) {
			return item.Item{}, item.ErrNotFound
		}
		return item.Item{}, err
	}
	return i, nil
}

func (r *PgItemRepository) Create(ctx context.Context, data item.Item) (item.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return item.Item{}, err
	}

	var id uint
	if err := tx.QueryRow(
		ctx,
		`INSERT INTO items (warehouse_id, code, name, quantity, unit_price, memo)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		data.WarehouseID(),
		data.Code(),
		data.Name(),
		data.Quantity(),
		data.UnitPrice(),
		data.Memo(),
	).Scan(&id); err != nil {
		return item.Item{}, gerrors.Wrap(err, "failed to create item")
	}
	return r.GetByID(ctx, id)
}

func (r *PgItemRepository) Update(ctx context.Context, data item.Item) (item.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return item.Item{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE items SET code = $2, name = $3, unit_price = $4, memo = $5, updated_at = NOW() WHERE id = $1`,
		data.ID(),
		data.Code(),
		data.Name(),
		data.UnitPrice(),
		data.Memo(),
	); err != nil {
		return item.Item{}, gerrors.Wrap(err, "failed to update item")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *PgItemRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return gerrors.Wrap(err, "failed to delete item")
	}
	return nil
}

// AdjustQuantity relies on the row lock taken by UPDATE; concurrent
// adjustments to the same item serialize here.
func (r *PgItemRepository) AdjustQuantity(ctx context.Context, warehouseID, itemID uint, delta int) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var quantity int
	err = tx.QueryRow(
		ctx,
		`UPDATE items SET quantity = quantity + $3, updated_at = NOW()
		 WHERE id = $1 AND warehouse_id = $2
		 RETURNING quantity`,
		itemID,
		warehouseID,
		delta,
	).Scan(&quantity)
	if err != nil {
		if gerrors.Is(err, pgx.ErrNoRows) {
			return 0, item.ErrNotFound
		}
		return 0, gerrors.Wrap(err, "failed to adjust item quantity")
	}
	return quantity, nil
}

func scanItem(row pgx.Row) (item.Item, error) {
	var m models.Item
	if err := row.Scan(
		&m.ID,
		&m.WarehouseID,
		&m.Code,
		&m.Name,
		&m.Quantity,
		&m.UnitPrice,
		&m.Memo,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return item.Item{}, err
	}
	return item.Hydrate(m.ID, m.WarehouseID, m.Code, m.Name, m.Quantity, m.UnitPrice, m.Memo, m.CreatedAt, m.UpdatedAt), nil
}
