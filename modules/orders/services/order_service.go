package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/modules/orders/domain/aggregates/order"
	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	warehouseservices "github.com/kars-hq/kars/modules/warehouse/services"
	"github.com/kars-hq/kars/pkg/cache"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/eventbus"
	"github.com/kars-hq/kars/pkg/workflow"
)

// ErrNotEditable guards field updates after the approval stage has started.
var ErrNotEditable = errors.New("order can only be edited while requested")

type OrderService struct {
	repo        order.Repository
	inventory   *warehouseservices.InventoryService
	publisher   eventbus.EventBus
	invalidator cache.Invalidator
}

func NewOrderService(
	repo order.Repository,
	inventory *warehouseservices.InventoryService,
	publisher eventbus.EventBus,
	invalidator cache.Invalidator,
) *OrderService {
	return &OrderService{
		repo:        repo,
		inventory:   inventory,
		publisher:   publisher,
		invalidator: invalidator,
	}
}

func (s *OrderService) GetPaginated(ctx context.Context, params *order.FindParams) ([]order.Order, int64, error) {
	if err := authorizeOrdersFn(ctx, OrdersAuthzObject, "read"); err != nil {
		return nil, 0, err
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *OrderService) Count(ctx context.Context, params *order.FindParams) (int64, error) {
	if err := authorizeOrdersFn(ctx, OrdersAuthzObject, "read"); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *OrderService) GetByID(ctx context.Context, id uint) (order.Order, error) {
	if err := authorizeOrdersFn(ctx, OrdersAuthzObject, "read"); err != nil {
		return order.Order{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *OrderService) Create(ctx context.Context, dto *order.CreateDTO) (order.Order, error) {
	if err := authorizeOrdersFn(ctx, OrdersAuthzObject, "create"); err != nil {
		return order.Order{}, err
	}
	if dto == nil {
		return order.Order{}, errors.New("missing dto")
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return order.Order{}, err
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (order.Order, error) {
		return s.repo.Create(txCtx, dto.ToEntity(actor.ID))
	})
	if err != nil {
		return order.Order{}, err
	}
	composables.AfterCommit(ctx, func() {
		s.publisher.Publish(order.CreatedEvent{Result: created})
		s.invalidator.Invalidate(ctx, workflow.ResourcePurchase)
	})
	return created, nil
}

// Update edits request fields. Only the author or an admin may edit, and only
// while the order is still in the requested stage.
func (s *OrderService) Update(ctx context.Context, id uint, dto *order.UpdateDTO) (order.Order, error) {
	if err := authorizeOrdersFn(ctx, OrdersAuthzObject, "create"); err != nil {
		return order.Order{}, err
	}
	if dto == nil {
		return order.Order{}, errors.New("missing dto")
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return order.Order{}, err
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (order.Order, error) {
		existing, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return order.Order{}, err
		}
		if existing.UserID() != actor.ID && !actor.IsAdmin {
			return order.Order{}, workflow.ErrPermissionDenied
		}
		if !existing.Editable() {
			return order.Order{}, ErrNotEditable
		}
		return s.repo.Update(txCtx, dto.Apply(existing))
	})
	if err != nil {
		return order.Order{}, err
	}
	composables.AfterCommit(ctx, func() {
		s.publisher.Publish(order.UpdatedEvent{Result: updated})
		s.invalidator.Invalidate(ctx, workflow.ResourcePurchase)
	})
	return updated, nil
}

// UpdateStatus executes a workflow transition. The status write and any
// inventory movement commit in the same transaction; the row lock makes a
// duplicate request fail on the transition check instead of double-applying
// stock effects.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, target workflow.Status) (order.Order, workflow.Outcome, error) {
	if err := authorizeOrdersFn(ctx, OrdersAuthzObject, "transition"); err != nil {
		return order.Order{}, workflow.Outcome{}, err
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return order.Order{}, workflow.Outcome{}, err
	}

	type txResult struct {
		ord     order.Order
		outcome workflow.Outcome
	}
	res, err := composables.InTxResult(ctx, func(txCtx context.Context) (txResult, error) {
		existing, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return txResult{}, err
		}
		outcome, err := workflow.Execute(existing.Record(), actor, target)
		if err != nil {
			return txResult{}, err
		}
		if movements := movementsFor(existing, outcome.Effect); len(movements) > 0 {
			if err := s.inventory.Adjust(txCtx, existing.WarehouseID(), movements); err != nil {
				return txResult{}, err
			}
		}
		if err := s.repo.UpdateStatus(txCtx, id, target); err != nil {
			return txResult{}, err
		}
		return txResult{ord: existing.WithStatus(target), outcome: outcome}, nil
	})
	if err != nil {
		return order.Order{}, workflow.Outcome{}, err
	}

	composables.AfterCommit(ctx, func() {
		s.publisher.Publish(order.StatusChangedEvent{Result: res.ord, Actor: actor, Outcome: res.outcome})
		s.invalidator.Invalidate(ctx, res.outcome.Stale...)
	})
	return res.ord, res.outcome, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	if err := authorizeOrdersFn(ctx, OrdersAuthzObject, "create"); err != nil {
		return err
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return err
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if existing.UserID() != actor.ID && !actor.IsAdmin {
			return workflow.ErrPermissionDenied
		}
		return s.repo.SoftDelete(txCtx, id)
	})
	if err != nil {
		return err
	}
	composables.AfterCommit(ctx, func() {
		s.publisher.Publish(order.DeletedEvent{ID: id})
		s.invalidator.Invalidate(ctx, workflow.ResourcePurchase)
	})
	return nil
}

// movementsFor translates a transition effect into signed stock movements.
func movementsFor(o order.Order, effect workflow.InventoryEffect) []item.Movement {
	if effect == workflow.EffectNone {
		return nil
	}
	sign := -1
	if effect == workflow.EffectRestock {
		sign = 1
	}
	movements := make([]item.Movement, 0, len(o.Items()))
	for _, li := range o.Items() {
		movements = append(movements, item.Movement{
			ItemID: li.ItemID,
			Delta:  sign * li.Quantity,
		})
	}
	return movements
}
