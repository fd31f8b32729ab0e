package persistence

import (
	"context"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/kars-hq/kars/modules/orders/domain/aggregates/order"
	"github.com/kars-hq/kars/modules/orders/infrastructure/persistence/models"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/repo"
	"github.com/kars-hq/kars/pkg/workflow"
)

const orderColumns = `id, user_id, team_id, warehouse_id, requester, receiver, receiver_phone,
	receiver_address, purchase_date, manager, status, created_at, updated_at, deleted_at`

type PgOrderRepository struct{}

func NewOrderRepository() order.Repository {
	return &PgOrderRepository{}
}

func (r *PgOrderRepository) GetPaginated(ctx context.Context, params *order.FindParams) ([]order.Order, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereClause, args := orderFilters(params)

	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE "+whereClause, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM orders WHERE %s ORDER BY created_at DESC, id DESC", orderColumns, whereClause)
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rowModels []models.Order
	for rows.Next() {
		m, err := scanOrderModel(rows)
		if err != nil {
			return nil, 0, err
		}
		rowModels = append(rowModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	results := make([]order.Order, 0, len(rowModels))
	for _, m := range rowModels {
		o, err := r.hydrate(ctx, m)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, o)
	}
	return results, count, nil
}

func orderFilters(params *order.FindParams) (string, []interface{}) {
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

func (r *PgOrderRepository) Count(ctx context.Context, params *order.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	whereClause, args := orderFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE "+whereClause, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgOrderRepository) GetByID(ctx context.Context, id uint) (order.Order, error) {
	return r.getOne(ctx, id, false)
}

func (r *PgOrderRepository) GetByIDForUpdate(ctx context.Context, id uint) (order.Order, error) {
	return r.getOne(ctx, id, true)
}

func (r *PgOrderRepository) getOne(ctx context.Context, id uint, forUpdate bool) (order.Order, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return order.Order{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1 AND deleted_at IS NULL", orderColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}
	m, err := scanOrderModel(tx.QueryRow(ctx, query, id))
	if err != nil {
		if gerrors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, err
	}
	return r.hydrate(ctx, m)
}

func (r *PgOrderRepository) Create(ctx context.Context, data order.Order) (order.Order, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return order.Order{}, err
	}

	var id uint
	if err := tx.QueryRow(
		ctx,
		`INSERT INTO orders (user_id, team_id, warehouse_id, requester, receiver, receiver_phone,
		 receiver_address, purchase_date, manager, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		data.UserID(),
		data.TeamID(),
		data.WarehouseID(),
		data.Requester(),
		data.Receiver(),
		data.ReceiverPhone(),
		data.ReceiverAddress(),
		data.PurchaseDate(),
		data.Manager(),
		string(data.Status()),
	).Scan(&id); err != nil {
		return order.Order{}, gerrors.Wrap(err, "failed to create order")
	}

	if err := r.insertLineItems(ctx, id, data.Items()); err != nil {
		return order.Order{}, err
	}
	if err := r.insertAttachments(ctx, id, data.Attachments()); err != nil {
		return order.Order{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PgOrderRepository) Update(ctx context.Context, data order.Order) (order.Order, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return order.Order{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE orders SET requester = $2, receiver = $3, receiver_phone = $4,
		 receiver_address = $5, purchase_date = $6, manager = $7, updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`,
		data.ID(),
		data.Requester(),
		data.Receiver(),
		data.ReceiverPhone(),
		data.ReceiverAddress(),
		data.PurchaseDate(),
		data.Manager(),
	); err != nil {
		return order.Order{}, gerrors.Wrap(err, "failed to update order")
	}

	// Line items are replaced wholesale; the order is still requested so no
	// inventory has moved yet.
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, data.ID()); err != nil {
		return order.Order{}, gerrors.Wrap(err, "failed to clear order items")
	}
	if err := r.insertLineItems(ctx, data.ID(), data.Items()); err != nil {
		return order.Order{}, err
	}
	return r.GetByID(ctx, data.ID())
}

func (r *PgOrderRepository) UpdateStatus(ctx context.Context, id uint, status workflow.Status) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id,
		string(status),
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update order status")
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *PgOrderRepository) SoftDelete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE orders SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to delete order")
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *PgOrderRepository) insertLineItems(ctx context.Context, orderID uint, items []order.LineItem) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	for _, li := range items {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO order_items (order_id, item_id, quantity, memo) VALUES ($1, $2, $3, $4)`,
			orderID,
			li.ItemID,
			li.Quantity,
			li.Memo,
		); err != nil {
			return gerrors.Wrap(err, "failed to insert order item")
		}
	}
	return nil
}

func (r *PgOrderRepository) insertAttachments(ctx context.Context, orderID uint, attachments []order.Attachment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	for _, a := range attachments {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO order_attachments (order_id, name, url) VALUES ($1, $2, $3)`,
			orderID,
			a.Name,
			a.URL,
		); err != nil {
			return gerrors.Wrap(err, "failed to insert order attachment")
		}
	}
	return nil
}

func (r *PgOrderRepository) hydrate(ctx context.Context, m models.Order) (order.Order, error) {
	items, err := r.lineItems(ctx, m.ID)
	if err != nil {
		return order.Order{}, err
	}
	attachments, err := r.attachments(ctx, m.ID)
	if err != nil {
		return order.Order{}, err
	}
	return order.Hydrate(
		m.ID,
		m.UserID,
		m.TeamID,
		m.WarehouseID,
		m.Requester,
		m.Receiver,
		m.ReceiverPhone,
		m.ReceiverAddress,
		m.PurchaseDate,
		m.Manager,
		workflow.Status(m.Status),
		items,
		attachments,
		m.CreatedAt,
		m.UpdatedAt,
		m.DeletedAt,
	), nil
}

func (r *PgOrderRepository) lineItems(ctx context.Context, orderID uint) ([]order.LineItem, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(
		ctx,
		`SELECT id, item_id, quantity, memo FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []order.LineItem
	for rows.Next() {
		var m models.OrderItem
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Quantity, &m.Memo); err != nil {
			return nil, err
		}
		items = append(items, order.LineItem{ID: m.ID, ItemID: m.ItemID, Quantity: m.Quantity, Memo: m.Memo})
	}
	return items, rows.Err()
}

func (r *PgOrderRepository) attachments(ctx context.Context, orderID uint) ([]order.Attachment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(
		ctx,
		`SELECT name, url FROM order_attachments WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []order.Attachment
	for rows.Next() {
		var m models.OrderAttachment
		if err := rows.Scan(&m.Name, &m.URL); err != nil {
			return nil, err
		}
		attachments = append(attachments, order.Attachment{Name: m.Name, URL: m.URL})
	}
	return attachments, rows.Err()
}

func scanOrderModel(row pgx.Row) (models.Order, error) {
	var m models.Order
	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.TeamID,
		&m.WarehouseID,
		&m.Requester,
		&m.Receiver,
		&m.ReceiverPhone,
		&m.ReceiverAddress,
		&m.PurchaseDate,
		&m.Manager,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.DeletedAt,
	); err != nil {
		return models.Order{}, err
	}
	return m, nil
}
