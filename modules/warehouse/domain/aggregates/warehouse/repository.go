package warehouse

import (
	"context"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("warehouse not found")

type FindParams struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Warehouse, int64, error)
	GetByID(ctx context.Context, id uint) (Warehouse, error)
	Create(ctx context.Context, w Warehouse) (Warehouse, error)
	Update(ctx context.Context, w Warehouse) (Warehouse, error)
	Delete(ctx context.Context, id uint) error
}
