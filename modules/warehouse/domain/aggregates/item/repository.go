package item

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/pkg/serrors"
)

var (
	ErrNotFound  = errors.New("item not found")
	ErrCodeTaken = errors.New("item code already taken")

	// ErrInsufficientStock is returned when a movement would drive a
	// quantity below zero. Coded so the API can surface it as a conflict.
	ErrInsufficientStock = serrors.NewError(
		"WAREHOUSE_INSUFFICIENT_STOCK",
		"insufficient stock",
		"the requested quantity exceeds the warehouse stock",
	)
)

// Movement is a signed stock change for one item.
type Movement struct {
	ItemID uint
	Delta  int
}

type FindParams struct {
	WarehouseID uint
	Q           string
	Limit       int
	Offset      int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Item, int64, error)
	GetByID(ctx context.Context, id uint) (Item, error)
	Create(ctx context.Context, i Item) (Item, error)
	Update(ctx context.Context, i Item) (Item, error)
	Delete(ctx context.Context, id uint) error

	// AdjustQuantity applies delta to the row under lock and returns the
	// resulting quantity. A negative result must be rejected by the caller's
	// transaction via ErrInsufficientStock.
	AdjustQuantity(ctx context.Context, warehouseID, itemID uint, delta int) (int, error)
}
