package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/modules/demos/domain/aggregates/demo"
	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	warehouseservices "github.com/kars-hq/kars/modules/warehouse/services"
	"github.com/kars-hq/kars/pkg/cache"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/eventbus"
	"github.com/kars-hq/kars/pkg/workflow"
)

// ErrNotEditable guards field updates after the approval stage has started.
var ErrNotEditable = errors.New("demo can only be edited while requested")

type DemoService struct {
	repo        demo.Repository
	inventory   *warehouseservices.InventoryService
	publisher   eventbus.EventBus
	invalidator cache.Invalidator
}

func NewDemoService(
	repo demo.Repository,
	inventory *warehouseservices.InventoryService,
	publisher eventbus.EventBus,
	invalidator cache.Invalidator,
) *DemoService {
	return &DemoService{
		repo:        repo,
		inventory:   inventory,
		publisher:   publisher,
		invalidator: invalidator,
	}
}

func (s *DemoService) GetPaginated(ctx context.Context, params *demo.FindParams) ([]demo.Demo, int64, error) {
	if err := authorizeDemosFn(ctx, DemosAuthzObject, "read"); err != nil {
		return nil, 0, err
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *DemoService) Count(ctx context.Context, params *demo.FindParams) (int64, error) {
	if err := authorizeDemosFn(ctx, DemosAuthzObject, "read"); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *DemoService) GetByID(ctx context.Context, id uint) (demo.Demo, error) {
	if err := authorizeDemosFn(ctx, DemosAuthzObject, "read"); err != nil {
		return demo.Demo{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *DemoService) Create(ctx context.Context, dto *demo.CreateDTO) (demo.Demo, error) {
	if err := authorizeDemosFn(ctx, DemosAuthzObject, "create"); err != nil {
		return demo.Demo{}, err
	}
	if dto == nil {
		return demo.Demo{}, errors.New("missing dto")
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return demo.Demo{}, err
	}
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (demo.Demo, error) {
		return s.repo.Create(txCtx, dto.ToEntity(actor.ID))
	})
	if err != nil {
		return demo.Demo{}, err
	}
	composables.AfterCommit(ctx, func() {
		s.publisher.Publish(demo.CreatedEvent{Result: created})
		s.invalidator.Invalidate(ctx, workflow.ResourceDemos)
	})
	return created, nil
}

// Update edits demo fields. Only the author or an admin may edit, and only
// while the demo is still in the requested stage.
func (s *DemoService) Update(ctx context.Context, id uint, dto *demo.UpdateDTO) (demo.Demo, error) {
	if err := authorizeDemosFn(ctx, DemosAuthzObject, "create"); err != nil {
		return demo.Demo{}, err
	}
	if dto == nil {
		return demo.Demo{}, errors.New("missing dto")
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return demo.Demo{}, err
	}
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (demo.Demo, error) {
		existing, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return demo.Demo{}, err
		}
		if existing.UserID() != actor.ID && !actor.IsAdmin {
			return demo.Demo{}, workflow.ErrPermissionDenied
		}
		if !existing.Editable() {
			return demo.Demo{}, ErrNotEditable
		}
		return s.repo.Update(txCtx, dto.Apply(existing))
	})
	if err != nil {
		return demo.Demo{}, err
	}
	composables.AfterCommit(ctx, func() {
		s.publisher.Publish(demo.UpdatedEvent{Result: updated})
		s.invalidator.Invalidate(ctx, workflow.ResourceDemos)
	})
	return updated, nil
}

// UpdateStatus executes a workflow transition. A demo decrements stock on
// shipmentCompleted like an order and restocks it on demoCompleted when the
// equipment comes back. Both the status write and the movement commit in the
// same transaction, under a row lock taken on the demo.
func (s *DemoService) UpdateStatus(ctx context.Context, id uint, target workflow.Status) (demo.Demo, workflow.Outcome, error) {
	if err := authorizeDemosFn(ctx, DemosAuthzObject, "transition"); err != nil {
		return demo.Demo{}, workflow.Outcome{}, err
	}
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return demo.Demo{}, workflow.Outcome{}, err
	}

	type txResult struct {
		dem     demo.Demo
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
		return txResult{dem: existing.WithStatus(target), outcome: outcome}, nil
	})
	if err != nil {
		return demo.Demo{}, workflow.Outcome{}, err
	}

	composables.AfterCommit(ctx, func() {
		s.publisher.Publish(demo.StatusChangedEvent{Result: res.dem, Actor: actor, Outcome: res.outcome})
		s.invalidator.Invalidate(ctx, res.outcome.Stale...)
	})
	return res.dem, res.outcome, nil
}

func (s *DemoService) Delete(ctx context.Context, id uint) error {
	if err := authorizeDemosFn(ctx, DemosAuthzObject, "create"); err != nil {
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
		s.publisher.Publish(demo.DeletedEvent{ID: id})
		s.invalidator.Invalidate(ctx, workflow.ResourceDemos)
	})
	return nil
}

// movementsFor translates a transition effect into signed stock movements.
func movementsFor(d demo.Demo, effect workflow.InventoryEffect) []item.Movement {
	if effect == workflow.EffectNone {
		return nil
	}
	sign := -1
	if effect == workflow.EffectRestock {
		sign = 1
	}
	movements := make([]item.Movement, 0, len(d.Items()))
	for _, li := range d.Items() {
		movements = append(movements, item.Movement{
			ItemID: li.ItemID,
			Delta:  sign * li.Quantity,
		})
	}
	return movements
}
