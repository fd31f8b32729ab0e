package demo

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/pkg/workflow"
)

var ErrNotFound = errors.New("demo not found")

type FindParams struct {
	UserID uint
	Status workflow.Status
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Demo, int64, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uint) (Demo, error)

	// GetByIDForUpdate locks the row for the rest of the transaction so a
	// concurrent duplicate transition observes the advanced status.
	GetByIDForUpdate(ctx context.Context, id uint) (Demo, error)

	Create(ctx context.Context, data Demo) (Demo, error)
	Update(ctx context.Context, data Demo) (Demo, error)
	UpdateStatus(ctx context.Context, id uint, status workflow.Status) error
	SoftDelete(ctx context.Context, id uint) error
}
