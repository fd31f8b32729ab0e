package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	"github.com/kars-hq/kars/pkg/composables"
)

// InventoryService applies stock movements. Order and demo status changes
// call Adjust inside their own transaction so a failed movement rolls the
// status change back with it.
type InventoryService struct {
	items item.Repository
}

func NewInventoryService(items item.Repository) *InventoryService {
	return &InventoryService{items: items}
}

// Adjust applies all movements or none. Any movement that would drive a
// quantity negative aborts with ErrInsufficientStock.
func (s *InventoryService) Adjust(ctx context.Context, warehouseID uint, movements []item.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		for _, m := range movements {
			if m.Delta == 0 {
				continue
			}
			quantity, err := s.items.AdjustQuantity(txCtx, warehouseID, m.ItemID, m.Delta)
			if err != nil {
				return err
			}
			if quantity < 0 {
				return errors.Wrapf(item.ErrInsufficientStock, "item %d", m.ItemID)
			}
		}
		return nil
	})
}
