package persistence

import (
	"context"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/kars-hq/kars/modules/demos/domain/aggregates/demo"
	"github.com/kars-hq/kars/modules/demos/infrastructure/persistence/models"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/repo"
	"github.com/kars-hq/kars/pkg/workflow"
)

const demoColumns = `id, user_id, team_id, warehouse_id, title, manager, manager_phone, handler,
	address, start_date, end_date, memo, status, created_at, updated_at, deleted_at`

type PgDemoRepository struct{}

func NewDemoRepository() demo.Repository {
	return &PgDemoRepository{}
}

func (r *PgDemoRepository) GetPaginated(ctx context.Context, params *demo.FindParams) ([]demo.Demo, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereClause, args := demoFilters(params)

	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM demos WHERE "+whereClause, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM demos WHERE %s ORDER BY created_at DESC, id DESC", demoColumns, whereClause)
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rowModels []models.Demo
	for rows.Next() {
		m, err := scanDemoModel(rows)
		if err != nil {
			return nil, 0, err
		}
		rowModels = append(rowModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	results := make([]demo.Demo, 0, len(rowModels))
	for _, m := range rowModels {
		d, err := r.hydrate(ctx, m)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, d)
	}
	return results, count, nil
}

func demoFilters(params *demo.FindParams) (string, []interface{}) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argPos := 1
	if params != nil && params.UserID != 0 {
		where = append(where, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, params.UserID)
		argPos++
	}
	if params != nil && params.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(params.Status))
	}
	return strings.Join(where, " AND "), args
}

func (r *PgDemoRepository) Count(ctx context.Context, params *demo.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	whereClause, args := demoFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM demos WHERE "+whereClause, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgDemoRepository) GetByID(ctx context.Context, id uint) (demo.Demo, error) {
	return r.getOne(ctx, id, false)
}

func (r *PgDemoRepository) GetByIDForUpdate(ctx context.Context, id uint) (demo.Demo, error) {
	return r.getOne(ctx, id, true)
}

func (r *PgDemoRepository) getOne(ctx context.Context, id uint, forUpdate bool) (demo.Demo, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return demo.Demo{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM demos WHERE id = $1 AND deleted_at IS NULL", demoColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}
	m, err := scanDemoModel(tx.QueryRow(ctx, query, id))
	if err != nil {
		if gerrors.Is(err, pgx.ErrNoRows) {
			return demo.Demo{}, demo.ErrNotFound
		}
		return demo.Demo{}, err
	}
	return r.hydrate(ctx, m)
}

func (r *PgDemoRepository) Create(ctx context.Context, data demo.Demo) (demo.Demo, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return demo.Demo{}, err
	}

	var id uint
	if err := tx.QueryRow(
		ctx,
		`INSERT INTO demos (user_id, team_id, warehouse_id, title, manager, manager_phone, handler,
		 address, start_date, end_date, memo, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		data.UserID(),
		data.TeamID(),
		data.WarehouseID(),
		data.Title(),
		data.Manager(),
		data.ManagerPhone(),
		data.Handler(),
		data.Address(),
		data.StartDate(),
		data.EndDate(),
		data.Memo(),
		string(data.Status()),
	).Scan(&id); err != nil {
		return demo.Demo{}, gerrors.Wrap(err, "failed to create demo")
	}

	if err := r.insertLineItems(ctx, id, data.Items()); err != nil {
		return demo.Demo{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PgDemoRepository) Update(ctx context.Context, data demo.Demo) (demo.Demo, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return demo.Demo{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE demos SET title = $2, manager = $3, manager_phone = $4, handler = $5,
		 address = $6, start_date = $7, end_date = $8, memo = $9, updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`,
		data.ID(),
		data.Title(),
		data.Manager(),
		data.ManagerPhone(),
		data.Handler(),
		data.Address(),
		data.StartDate(),
		data.EndDate(),
		data.Memo(),
	); err != nil {
		return demo.Demo{}, gerrors.Wrap(err, "failed to update demo")
	}

	// Line items are replaced wholesale; the demo is still requested so no
	// inventory has moved yet.
	if _, err := tx.Exec(ctx, `DELETE FROM demo_items WHERE demo_id = $1`, data.ID()); err != nil {
		return demo.Demo{}, gerrors.Wrap(err, "failed to clear demo items")
	}
	if err := r.insertLineItems(ctx, data.ID(), data.Items()); err != nil {
		return demo.Demo{}, err
	}
	return r.GetByID(ctx, data.ID())
}

func (r *PgDemoRepository) UpdateStatus(ctx context.Context, id uint, status workflow.Status) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE demos SET status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id,
		string(status),
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update demo status")
	}
	if tag.RowsAffected() == 0 {
		return demo.ErrNotFound
	}
	return nil
}

func (r *PgDemoRepository) SoftDelete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE demos SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to delete demo")
	}
	if tag.RowsAffected() == 0 {
		return demo.ErrNotFound
	}
	return nil
}

func (r *PgDemoRepository) insertLineItems(ctx context.Context, demoID uint, items []demo.LineItem) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	for _, li := range items {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO demo_items (demo_id, item_id, quantity, memo) VALUES ($1, $2, $3, $4)`,
			demoID,
			li.ItemID,
			li.Quantity,
			li.Memo,
		); err != nil {
			return gerrors.Wrap(err, "failed to insert demo item")
		}
	}
	return nil
}

func (r *PgDemoRepository) hydrate(ctx context.Context, m models.Demo) (demo.Demo, error) {
	items, err := r.lineItems(ctx, m.ID)
	if err != nil {
		return demo.Demo{}, err
	}
	return demo.Hydrate(
		m.ID,
		m.UserID,
		m.TeamID,
		m.WarehouseID,
		m.Title,
		m.Manager,
		m.ManagerPhone,
		m.Handler,
		m.Address,
		m.StartDate,
		m.EndDate,
		m.Memo,
		workflow.Status(m.Status),
		items,
		m.CreatedAt,
		m.UpdatedAt,
		m.DeletedAt,
	), nil
}

func (r *PgDemoRepository) lineItems(ctx context.Context, demoID uint) ([]demo.LineItem, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(
		ctx,
		`SELECT id, item_id, quantity, memo FROM demo_items WHERE demo_id = $1 ORDER BY id`,
		demoID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []demo.LineItem
	for rows.Next() {
		var m models.DemoItem
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Quantity, &m.Memo); err != nil {
			return nil, err
		}
		items = append(items, demo.LineItem{ID: m.ID, ItemID: m.ItemID, Quantity: m.Quantity, Memo: m.Memo})
	}
	return items, rows.Err()
}

func scanDemoModel(row pgx.Row) (models.Demo, error) {
	var m models.Demo
	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.TeamID,
		&m.WarehouseID,
		&m.Title,
		&m.Manager,
		&m.ManagerPhone,
		&m.Handler,
		&m.Address,
		&m.StartDate,
		&m.EndDate,
		&m.Memo,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.DeletedAt,
	); err != nil {
		return models.Demo{}, err
	}
	return m, nil
}
