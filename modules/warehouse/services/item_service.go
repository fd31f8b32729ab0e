package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	"github.com/kars-hq/kars/pkg/composables"
)

type ItemService struct {
	repo item.Repository
}

func NewItemService(repo item.Repository) *ItemService {
	return &ItemService{repo: repo}
}

func (s *ItemService) GetPaginated(ctx context.Context, params *item.FindParams) ([]item.Item, int64, error) {
	if params != nil {
		params.Q = strings.TrimSpace(params.Q)
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *ItemService) GetByID(ctx context.Context, id uint) (item.Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ItemService) Create(ctx context.Context, dto *item.CreateDTO) (item.Item, error) {
	if err := authorizeWarehouseFn(ctx, ItemsAuthzObject, "create"); err != nil {
		return item.Item{}, err
	}
	if dto == nil {
		return item.Item{}, errors.New("missing dto")
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (item.Item, error) {
		return s.repo.Create(txCtx, dto.ToEntity())
	})
}

func (s *ItemService) Delete(ctx context.Context, id uint) error {
	if err := authorizeWarehouseFn(ctx, ItemsAuthzObject, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
