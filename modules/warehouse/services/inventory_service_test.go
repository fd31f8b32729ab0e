package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
)

type stubItemRepo struct {
	quantities map[uint]int
	calls      int
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
	m.calls++
	q, ok := m.quantities[itemID]
	if !ok {
		return 0, item.ErrNotFound
	}
	q += delta
	m.quantities[itemID] = q
	return q, nil
}

func TestInventoryService_Adjust(t *testing.T) {
	repo := &stubItemRepo{quantities: map[uint]int{1: 10, 2: 4}}
	svc := NewInventoryService(repo)

	err := svc.Adjust(context.Background(), 7, []item.Movement{
		{ItemID: 1, Delta: -3},
		{ItemID: 2, Delta: 2},
	})
	require.NoError(t, err)
	require.Equal(t, 7, repo.quantities[1])
	require.Equal(t, 6, repo.quantities[2])
}

func TestInventoryService_Adjust_InsufficientStock(t *testing.T) {
	repo := &stubItemRepo{quantities: map[uint]int{1: 2}}
	svc := NewInventoryService(repo)

	err := svc.Adjust(context.Background(), 7, []item.Movement{{ItemID: 1, Delta: -3}})
	require.ErrorIs(t, err, item.ErrInsufficientStock)
}

func TestInventoryService_Adjust_SkipsZeroDeltas(t *testing.T) {
	repo := &stubItemRepo{quantities: map[uint]int{1: 2}}
	svc := NewInventoryService(repo)

	require.NoError(t, svc.Adjust(context.Background(), 7, []item.Movement{{ItemID: 1, Delta: 0}}))
	require.Zero(t, repo.calls)
	require.Equal(t, 2, repo.quantities[1])
}

func TestInventoryService_Adjust_UnknownItem(t *testing.T) {
	repo := &stubItemRepo{quantities: map[uint]int{}}
	svc := NewInventoryService(repo)

	err := svc.Adjust(context.Background(), 7, []item.Movement{{ItemID: 99, Delta: -1}})
	require.ErrorIs(t, err, item.ErrNotFound)
}
