package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/warehouse"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/eventbus"
)

type WarehouseService struct {
	repo      warehouse.Repository
	publisher eventbus.EventBus
}

func NewWarehouseService(repo warehouse.Repository, publisher eventbus.EventBus) *WarehouseService {
	return &WarehouseService{repo: repo, publisher: publisher}
}

func (s *WarehouseService) GetPaginated(ctx context.Context, params *warehouse.FindParams) ([]warehouse.Warehouse, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *WarehouseService) GetByID(ctx context.Context, id uint) (warehouse.Warehouse, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *WarehouseService) Create(ctx context.Context, dto *warehouse.CreateDTO) (warehouse.Warehouse, error) {
	if err := authorizeWarehouseFn(ctx, WarehousesAuthzObject, "create"); err != nil {
		return warehouse.Warehouse{}, err
	}
	if dto == nil {
		return warehouse.Warehouse{}, errors.New("missing dto")
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (warehouse.Warehouse, error) {
		return s.repo.Create(txCtx, dto.ToEntity())
	})
}

func (s *WarehouseService) Update(ctx context.Context, id uint, dto *warehouse.UpdateDTO) (warehouse.Warehouse, error) {
	if err := authorizeWarehouseFn(ctx, WarehousesAuthzObject, "update"); err != nil {
		return warehouse.Warehouse{}, err
	}
	if dto == nil {
		return warehouse.Warehouse{}, errors.New("missing dto")
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (warehouse.Warehouse, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return warehouse.Warehouse{}, err
		}
		return s.repo.Update(txCtx, dto.Apply(existing))
	})
}

func (s *WarehouseService) Delete(ctx context.Context, id uint) error {
	if err := authorizeWarehouseFn(ctx, WarehousesAuthzObject, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
