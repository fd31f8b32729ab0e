package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"

	"github.com/kars-hq/kars/modules/orders/domain/aggregates/order"
	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	warehouseservices "github.com/kars-hq/kars/modules/warehouse/services"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/workflow"
)

type mockOrderRepo struct {
	orders map[uint]order.Order
	nextID uint
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uint]order.Order), nextID: 1}
}

func (m *mockOrderRepo) GetPaginated(_ context.Context, params *order.FindParams) ([]order.Order, int64, error) {
	var out []order.Order
	for _, o := range m.orders {
		if params != nil && params.UserID != 0 && o.UserID() != params.UserID {
			continue
		}
		if params != nil && params.Status != "" && o.Status() != params.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) Count(_ context.Context, params *order.FindParams) (int64, error) {
	_, total, err := m.GetPaginated(context.Background(), params)
	return total, err
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uint) (order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) GetByIDForUpdate(ctx context.Context, id uint) (order.Order, error) {
	return m.GetByID(ctx, id)
}

func (m *mockOrderRepo) Create(_ context.Context, data order.Order) (order.Order, error) {
	id := m.nextID
	m.nextID++
	created := order.Hydrate(
		id,
		data.UserID(),
		data.TeamID(),
		data.WarehouseID(),
		data.Requester(),
		data.Receiver(),
		data.ReceiverPhone(),
		data.ReceiverAddress(),
		data.PurchaseDate(),
		data.Manager(),
		data.Status(),
		data.Items(),
		data.Attachments(),
		time.Now(),
		time.Now(),
		nil,
	)
	m.orders[id] = created
	return created, nil
}

func (m *mockOrderRepo) Update(_ context.Context, data order.Order) (order.Order, error) {
	if _, ok := m.orders[data.ID()]; !ok {
		return order.Order{}, order.ErrNotFound
	}
	m.orders[data.ID()] = data
	return data, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uint, status workflow.Status) error {
	o, ok := m.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	m.orders[id] = o.WithStatus(status)
	return nil
}

func (m *mockOrderRepo) SoftDelete(_ context.Context, id uint) error {
	if _, ok := m.orders[id]; !ok {
		return order.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

type mockItemRepo struct {
	quantities map[uint]int
}

func (m *mockItemRepo) GetPaginated(context.Context, *item.FindParams) ([]item.Item, int64, error) {
	return nil, 0, nil
}

func (m *mockItemRepo) GetByID(context.Context, uint) (item.Item, error) {
	return item.Item{}, item.ErrNotFound
}

func (m *mockItemRepo) Create(_ context.Context, i item.Item) (item.Item, error) {
	return i, nil
}

func (m *mockItemRepo) Update(_ context.Context, i item.Item) (item.Item, error) {
	return i, nil
}

func (m *mockItemRepo) Delete(context.Context, uint) error {
	return nil
}

func (m *mockItemRepo) AdjustQuantity(_ context.Context, _, itemID uint, delta int) (int, error) {
	q, ok := m.quantities[itemID]
	if !ok {
		return 0, item.ErrNotFound
	}
	q += delta
	m.quantities[itemID] = q
	return q, nil
}

type recordingBus struct {
	events []interface{}
}

func (b *recordingBus) Publish(args ...interface{}) { b.events = append(b.events, args...) }
func (b *recordingBus) Subscribe(interface{})       {}
func (b *recordingBus) Unsubscribe(interface{})     {}
func (b *recordingBus) Clear()                      {}
func (b *recordingBus) SubscribersCount() int       { return 0 }

type recordingInvalidator struct {
	resources []workflow.Resource
}

func (i *recordingInvalidator) Invalidate(_ context.Context, resources ...workflow.Resource) {
	i.resources = append(i.resources, resources...)
}

type orderServiceFixture struct {
	service     *OrderService
	repo        *mockOrderRepo
	items       *mockItemRepo
	bus         *recordingBus
	invalidator *recordingInvalidator
}

func newOrderServiceFixture(t *testing.T) *orderServiceFixture {
	t.Helper()
	original := authorizeOrdersFn
	authorizeOrdersFn = func(context.Context, string, string) error { return nil }
	t.Cleanup(func() { authorizeOrdersFn = original })

	repo := newMockOrderRepo()
	items := &mockItemRepo{quantities: map[uint]int{10: 5, 11: 3}}
	bus := &recordingBus{}
	invalidator := &recordingInvalidator{}
	return &orderServiceFixture{
		service:     NewOrderService(repo, warehouseservices.NewInventoryService(items), bus, invalidator),
		repo:        repo,
		items:       items,
		bus:         bus,
		invalidator: invalidator,
	}
}

func asActor(actor workflow.Actor) context.Context {
	return composables.WithActor(context.Background(), actor)
}

var (
	requesterActor = workflow.Actor{ID: 1, Role: workflow.RoleUser}
	moderatorActor = workflow.Actor{ID: 2, Role: workflow.RoleModerator}
	adminActor     = workflow.Actor{ID: 3, Role: workflow.RoleAdmin}
)

func seedOrder(t *testing.T, f *orderServiceFixture, owner uint, status workflow.Status) order.Order {
	t.Helper()
	created, err := f.repo.Create(context.Background(), order.New(
		owner,
		1,
		7,
		"Requester",
		"Receiver",
		"010-0000-0000",
		"1 Depot Road",
		time.Now(),
		"Manager",
		[]order.LineItem{{ItemID: 10, Quantity: 2}, {ItemID: 11, Quantity: 1}},
		nil,
	))
	require.NoError(t, err)
	if status != workflow.StatusRequested {
		require.NoError(t, f.repo.UpdateStatus(context.Background(), created.ID(), status))
	}
	result, err := f.repo.GetByID(context.Background(), created.ID())
	require.NoError(t, err)
	return result
}

func TestOrderService_Create(t *testing.T) {
	f := newOrderServiceFixture(t)
	dto := &order.CreateDTO{
		TeamID:          1,
		WarehouseID:     7,
		Requester:       "Requester",
		Receiver:        "Receiver",
		ReceiverPhone:   "010-0000-0000",
		ReceiverAddress: "1 Depot Road",
		PurchaseDate:    time.Now(),
		Manager:         "Manager",
		Items:           []order.LineItemDTO{{ItemID: 10, Quantity: 2}},
	}

	created, err := f.service.Create(asActor(requesterActor), dto)
	require.NoError(t, err)
	require.Equal(t, requesterActor.ID, created.UserID())
	require.Equal(t, workflow.StatusRequested, created.Status())
	require.Len(t, f.bus.events, 1)
	require.IsType(t, order.CreatedEvent{}, f.bus.events[0])
	require.Contains(t, f.invalidator.resources, workflow.ResourcePurchase)
}

func TestOrderService_Create_NoActor(t *testing.T) {
	f := newOrderServiceFixture(t)
	_, err := f.service.Create(context.Background(), &order.CreateDTO{})
	require.ErrorIs(t, err, composables.ErrNoActorFound)
}

func TestOrderService_Update_OnlyWhileRequested(t *testing.T) {
	f := newOrderServiceFixture(t)
	seeded := seedOrder(t, f, requesterActor.ID, workflow.StatusApproved)

	receiver := "Someone Else"
	_, err := f.service.Update(asActor(requesterActor), seeded.ID(), &order.UpdateDTO{Receiver: &receiver})
	require.ErrorIs(t, err, ErrNotEditable)
}

func TestOrderService_Update_OnlyAuthorOrAdmin(t *testing.T) {
	f := newOrderServiceFixture(t)
	seeded := seedOrder(t, f, requesterActor.ID, workflow.StatusRequested)

	receiver := "Someone Else"
	stranger := workflow.Actor{ID: 42, Role: workflow.RoleUser}
	_, err := f.service.Update(asActor(stranger), seeded.ID(), &order.UpdateDTO{Receiver: &receiver})
	require.ErrorIs(t, err, workflow.ErrPermissionDenied)

	updated, err := f.service.Update(asActor(requesterActor), seeded.ID(), &order.UpdateDTO{Receiver: &receiver})
	require.NoError(t, err)
	require.Equal(t, receiver, updated.Receiver())
}

func TestOrderService_UpdateStatus_Approve(t *testing.T) {
	f := newOrderServiceFixture(t)
	seeded := seedOrder(t, f, requesterActor.ID, workflow.StatusRequested)

	updated, outcome, err := f.service.UpdateStatus(asActor(moderatorActor), seeded.ID(), workflow.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusApproved, updated.Status())
	require.Equal(t, workflow.EffectNone, outcome.Effect)
	require.Equal(t, 5, f.items.quantities[10], "approval must not move stock")

	stored, err := f.repo.GetByID(context.Background(), seeded.ID())
	require.NoError(t, err)
	require.Equal(t, workflow.StatusApproved, stored.Status())

	require.Len(t, f.bus.events, 1)
	require.IsType(t, order.StatusChangedEvent{}, f.bus.events[0])
	require.Contains(t, f.invalidator.resources, workflow.ResourcePurchase)
}

func TestOrderService_UpdateStatus_SignalsFollowOwnerCommit(t *testing.T) {
	f := newOrderServiceFixture(t)
	seeded := seedOrder(t, f, requesterActor.ID, workflow.StatusRequested)

	ctx := composables.WithTxHooks(asActor(moderatorActor))
	updated, _, err := f.service.UpdateStatus(ctx, seeded.ID(), workflow.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusApproved, updated.Status())

	// The surrounding request transaction has not committed yet.
	require.Empty(t, f.bus.events)
	require.Empty(t, f.invalidator.resources)

	composables.RunCommitHooks(ctx)
	require.Len(t, f.bus.events, 1)
	require.IsType(t, order.StatusChangedEvent{}, f.bus.events[0])
	require.Contains(t, f.invalidator.resources, workflow.ResourcePurchase)
}

func TestOrderService_UpdateStatus_SelfApproval(t *testing.T) {
	f := newOrderServiceFixture(t)
	seeded := seedOrder(t, f, moderatorActor.ID, workflow.StatusRequested)

	_, _, err := f.service.UpdateStatus(asActor(moderatorActor), seeded.ID(), workflow.StatusApproved)
	require.ErrorIs(t, err, workflow.ErrSelfApproval)

	stored, err := f.repo.GetByID(context.Background(), seeded.ID())
	require.NoError(t, err)
	require.Equal(t, workflow.StatusRequested, stored.Status())
}

func TestOrderService_UpdateStatus_PermissionDenied(t *testing.T) {
	f := newOrderServiceFixture(t)
	seeded := seedOrder(t, f, requesterActor.ID, workflow.StatusRequested)

	_, _, err := f.service.UpdateStatus(asActor(requesterActor), seeded.ID(), workflow.StatusApproved)
	require.ErrorIs(t, err, workflow.ErrPermissionDenied)
}

func TestOrderService_UpdateStatus_InvalidTransition(t *testing.T) {
	f := newOrderServiceFixture(t)
	seeded := seedOrder(t, f, requesterActor.ID, workflow.StatusApproved)

	_, _, err := f.service.UpdateStatus(asActor(moderatorActor), seeded.ID(), workflow.StatusApproved)
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestOrderService_UpdateStatus_ShipmentDecrementsStock(t *testing.T) {
	f := newOrderServiceFixture(t)
	seeded := seedOrder(t, f, requesterActor.ID, workflow.StatusConfirmedByShipper)

	updated, outcome, err := f.service.UpdateStatus(asActor(adminActor), seeded.ID(), workflow.StatusShipmentCompleted)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusShipmentCompleted, updated.Status())
	require.Equal(t, workflow.EffectDecrement, outcome.Effect)
	require.Equal(t, 3, f.items.quantities[10])
	require.Equal(t, 2, f.items.quantities[11])
	require.Contains(t, f.invalidator.resources, workflow.ResourceWarehouseItems)
}

func TestOrderService_UpdateStatus_InsufficientStock(t *testing.T) {
	f := newOrderServiceFixture(t)
	f.items.quantities[10] = 1
	seeded := seedOrder(t, f, requesterActor.ID, workflow.StatusConfirmedByShipper)

	_, _, err := f.service.UpdateStatus(asActor(adminActor), seeded.ID(), workflow.StatusShipmentCompleted)
	require.ErrorIs(t, err, item.ErrInsufficientStock)
	require.Empty(t, f.bus.events)
	require.Empty(t, f.invalidator.resources)
}

func TestOrderService_UpdateStatus_Forbidden(t *testing.T) {
	f := newOrderServiceFixture(t)
	denied := errors.New("denied")
	authorizeOrdersFn = func(context.Context, string, string) error { return denied }

	_, _, err := f.service.UpdateStatus(asActor(adminActor), 1, workflow.StatusApproved)
	require.ErrorIs(t, err, denied)
}

func TestOrderService_Delete_OnlyAuthorOrAdmin(t *testing.T) {
	f := newOrderServiceFixture(t)
	seeded := seedOrder(t, f, requesterActor.ID, workflow.StatusRequested)

	stranger := workflow.Actor{ID: 42, Role: workflow.RoleUser}
	err := f.service.Delete(asActor(stranger), seeded.ID())
	require.ErrorIs(t, err, workflow.ErrPermissionDenied)

	require.NoError(t, f.service.Delete(asActor(requesterActor), seeded.ID()))
	_, err = f.repo.GetByID(context.Background(), seeded.ID())
	require.ErrorIs(t, err, order.ErrNotFound)
}
