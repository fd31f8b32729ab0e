package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kars-hq/kars/modules/demos/domain/aggregates/demo"
	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	warehouseservices "github.com/kars-hq/kars/modules/warehouse/services"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/workflow"
)

type mockDemoRepo struct {
	demos  map[uint]demo.Demo
	nextID uint
}

func newMockDemoRepo() *mockDemoRepo {
	return &mockDemoRepo{demos: make(map[uint]demo.Demo), nextID: 1}
}

func (m *mockDemoRepo) GetPaginated(_ context.Context, params *demo.FindParams) ([]demo.Demo, int64, error) {
	var out []demo.Demo
	for _, d := range m.demos {
		if params != nil && params.UserID != 0 && d.UserID() != params.UserID {
			continue
		}
		if params != nil && params.Status != "" && d.Status() != params.Status {
			continue
		}
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (m *mockDemoRepo) Count(_ context.Context, params *demo.FindParams) (int64, error) {
	_, total, err := m.GetPaginated(context.Background(), params)
	return total, err
}

func (m *mockDemoRepo) GetByID(_ context.Context, id uint) (demo.Demo, error) {
	d, ok := m.demos[id]
	if !ok {
		return demo.Demo{}, demo.ErrNotFound
	}
	return d, nil
}

func (m *mockDemoRepo) GetByIDForUpdate(ctx context.Context, id uint) (demo.Demo, error) {
	return m.GetByID(ctx, id)
}

func (m *mockDemoRepo) Create(_ context.Context, data demo.Demo) (demo.Demo, error) {
	id := m.nextID
	m.nextID++
	created := demo.Hydrate(
		id,
		data.UserID(),
		data.TeamID(),
		data.WarehouseID(),
		data.Title(),
		data.Manager(),
		data.ManagerPhone(),
		data.Handler(),
		data.Address(),
		data.StartDate(),
		data.EndDate(),
		data.Memo(),
		data.Status(),
		data.Items(),
		time.Now(),
		time.Now(),
		nil,
	)
	m.demos[id] = created
	return created, nil
}

func (m *mockDemoRepo) Update(_ context.Context, data demo.Demo) (demo.Demo, error) {
	if _, ok := m.demos[data.ID()]; !ok {
		return demo.Demo{}, demo.ErrNotFound
	}
	m.demos[data.ID()] = data
	return data, nil
}

func (m *mockDemoRepo) UpdateStatus(_ context.Context, id uint, status workflow.Status) error {
	d, ok := m.demos[id]
	if !ok {
		return demo.ErrNotFound
	}
	m.demos[id] = d.WithStatus(status)
	return nil
}

func (m *mockDemoRepo) SoftDelete(_ context.Context, id uint) error {
	if _, ok := m.demos[id]; !ok {
		return demo.ErrNotFound
	}
	delete(m.demos, id)
	return nil
}

type stubItemRepo struct {
	quantities map[uint]int
}

func (m *stubItemRepo) GetPaginated(context.Context, *item.FindParams) ([]item.Item, int64, error) {
	return nil, 0, nil
}

func (m *stubItemRepo) GetByID(context.Context, uint) (item.Item, error) {
	return item.Item{}, item.ErrNotFound
}

func (m *stubItemRepo) Create(_ context.Context, i item.Item) (item.Item, error) {
	return i, nil
}

func (m *stubItemRepo) Update(_ context.Context, i item.Item) (item.Item, error) {
	return i, nil
}

func (m *stubItemRepo) Delete(context.Context, uint) error {
	return nil
}

func (m *stubItemRepo) AdjustQuantity(_ context.Context, _, itemID uint, delta int) (int, error) {
	q, ok := m.quantities[itemID]
	if !ok {
		return 0, item.ErrNotFound
	}
	q += delta
	m.quantities[itemID] = q
	return q, nil
}

type stubBus struct {
	events []interface{}
}

func (b *stubBus) Publish(args ...interface{}) { b.events = append(b.events, args...) }
func (b *stubBus) Subscribe(interface{})       {}
func (b *stubBus) Unsubscribe(interface{})     {}
func (b *stubBus) Clear()                      {}
func (b *stubBus) SubscribersCount() int       { return 0 }

type stubInvalidator struct {
	resources []workflow.Resource
}

func (i *stubInvalidator) Invalidate(_ context.Context, resources ...workflow.Resource) {
	i.resources = append(i.resources, resources...)
}

type demoServiceFixture struct {
	service     *DemoService
	repo        *mockDemoRepo
	items       *stubItemRepo
	bus         *stubBus
	invalidator *stubInvalidator
}

func newDemoServiceFixture(t *testing.T) *demoServiceFixture {
	t.Helper()
	original := authorizeDemosFn
	authorizeDemosFn = func(context.Context, string, string) error { return nil }
	t.Cleanup(func() { authorizeDemosFn = original })

	repo := newMockDemoRepo()
	items := &stubItemRepo{quantities: map[uint]int{20: 4}}
	bus := &stubBus{}
	invalidator := &stubInvalidator{}
	return &demoServiceFixture{
		service:     NewDemoService(repo, warehouseservices.NewInventoryService(items), bus, invalidator),
		repo:        repo,
		items:       items,
		bus:         bus,
		invalidator: invalidator,
	}
}

func demoActor(actor workflow.Actor) context.Context {
	return composables.WithActor(context.Background(), actor)
}

func seedDemo(t *testing.T, f *demoServiceFixture, owner uint, status workflow.Status) demo.Demo {
	t.Helper()
	start := time.Now()
	created, err := f.repo.Create(context.Background(), demo.New(
		owner,
		1,
		7,
		"Scanner demo",
		"Manager",
		"010-0000-0000",
		"Handler",
		"1 Clinic Street",
		start,
		start.AddDate(0, 0, 14),
		"",
		[]demo.LineItem{{ItemID: 20, Quantity: 2}},
	))
	require.NoError(t, err)
	if status != workflow.StatusRequested {
		require.NoError(t, f.repo.UpdateStatus(context.Background(), created.ID(), status))
	}
	result, err := f.repo.GetByID(context.Background(), created.ID())
	require.NoError(t, err)
	return result
}

func TestDemoService_Create(t *testing.T) {
	f := newDemoServiceFixture(t)
	start := time.Now()
	dto := &demo.CreateDTO{
		TeamID:       1,
		WarehouseID:  7,
		Title:        "Scanner demo",
		Manager:      "Manager",
		ManagerPhone: "010-0000-0000",
		Handler:      "Handler",
		Address:      "1 Clinic Street",
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 14),
		Items:        []demo.LineItemDTO{{ItemID: 20, Quantity: 1}},
	}

	actor := workflow.Actor{ID: 1, Role: workflow.RoleUser}
	created, err := f.service.Create(demoActor(actor), dto)
	require.NoError(t, err)
	require.Equal(t, actor.ID, created.UserID())
	require.Equal(t, workflow.StatusRequested, created.Status())
	require.Contains(t, f.invalidator.resources, workflow.ResourceDemos)
}

func TestDemoService_UpdateStatus_ShipmentDecrementsStock(t *testing.T) {
	f := newDemoServiceFixture(t)
	seeded := seedDemo(t, f, 1, workflow.StatusConfirmedByShipper)

	admin := workflow.Actor{ID: 3, Role: workflow.RoleAdmin}
	updated, outcome, err := f.service.UpdateStatus(demoActor(admin), seeded.ID(), workflow.StatusShipmentCompleted)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusShipmentCompleted, updated.Status())
	require.Equal(t, workflow.EffectDecrement, outcome.Effect)
	require.Equal(t, 2, f.items.quantities[20])
}

func TestDemoService_UpdateStatus_SignalsFollowOwnerCommit(t *testing.T) {
	f := newDemoServiceFixture(t)
	seeded := seedDemo(t, f, 1, workflow.StatusShipmentCompleted)

	admin := workflow.Actor{ID: 3, Role: workflow.RoleAdmin}
	ctx := composables.WithTxHooks(demoActor(admin))
	_, _, err := f.service.UpdateStatus(ctx, seeded.ID(), workflow.StatusDemoCompleted)
	require.NoError(t, err)

	// Restock broadcast waits for the owning transaction to commit.
	require.Empty(t, f.bus.events)
	require.Empty(t, f.invalidator.resources)

	composables.RunCommitHooks(ctx)
	require.Len(t, f.bus.events, 1)
	require.Contains(t, f.invalidator.resources, workflow.ResourceDemos)
}

func TestDemoService_UpdateStatus_CompletionRestocks(t *testing.T) {
	f := newDemoServiceFixture(t)
	f.items.quantities[20] = 2
	seeded := seedDemo(t, f, 1, workflow.StatusShipmentCompleted)

	admin := workflow.Actor{ID: 3, Role: workflow.RoleAdmin}
	updated, outcome, err := f.service.UpdateStatus(demoActor(admin), seeded.ID(), workflow.StatusDemoCompleted)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusDemoCompleted, updated.Status())
	require.Equal(t, workflow.EffectRestock, outcome.Effect)
	require.Equal(t, 4, f.items.quantities[20], "returned demo stock must come back")
	require.Contains(t, f.invalidator.resources, workflow.ResourceDemos)
	require.Contains(t, f.invalidator.resources, workflow.ResourceWarehouseItems)
}

func TestDemoService_UpdateStatus_SelfApproval(t *testing.T) {
	f := newDemoServiceFixture(t)
	moderator := workflow.Actor{ID: 2, Role: workflow.RoleModerator}
	seeded := seedDemo(t, f, moderator.ID, workflow.StatusRequested)

	_, _, err := f.service.UpdateStatus(demoActor(moderator), seeded.ID(), workflow.StatusApproved)
	require.ErrorIs(t, err, workflow.ErrSelfApproval)
}

func TestDemoService_UpdateStatusDTO_AcceptsDemoCompleted(t *testing.T) {
	dto := &demo.UpdateStatusDTO{Status: string(workflow.StatusDemoCompleted)}
	_, ok := dto.Ok()
	require.True(t, ok, "demoCompleted is a valid demo status")
}

func TestDemoService_Update_OnlyWhileRequested(t *testing.T) {
	f := newDemoServiceFixture(t)
	owner := workflow.Actor{ID: 1, Role: workflow.RoleUser}
	seeded := seedDemo(t, f, owner.ID, workflow.StatusApproved)

	title := "Renamed demo"
	_, err := f.service.Update(demoActor(owner), seeded.ID(), &demo.UpdateDTO{Title: &title})
	require.ErrorIs(t, err, ErrNotEditable)
}
