package order

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/pkg/workflow"
)

var ErrNotFound = errors.New("order not found")

type FindParams struct {
	UserID uint
	Status workflow.Status
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Order, int64, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uint) (Order, error)
	// GetByIDForUpdate locks the row for the rest of the transaction so a
	// concurrent duplicate transition observes the advanced status.
	GetByIDForUpdate(ctx context.Context, id uint) (Order, error)
	Create(ctx context.Context, o Order) (Order, error)
	Update(ctx context.Context, o Order) (Order, error)
	UpdateStatus(ctx context.Context, id uint, status workflow.Status) error
	SoftDelete(ctx context.Context, id uint) error
}
