package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"

	"github.com/kars-hq/kars/modules/core/domain/aggregates/user"
	"github.com/kars-hq/kars/pkg/workflow"
)

type mockUserRepo struct {
	users  map[uint]user.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]user.User), nextID: 1}
}

func (m *mockUserRepo) GetPaginated(_ context.Context, params *user.FindParams) ([]user.User, int64, error) {
	var out []user.User
	for _, u := range m.users {
		out = append(out, u)
	}
	_ = params
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	id := m.nextID
	m.nextID++
	created := user.Hydrate(id, u.Email(), u.Name(), u.Role(), u.IsAdmin(), time.Now(), time.Now())
	m.users[id] = created
	return created, nil
}

func (m *mockUserRepo) Update(_ context.Context, u user.User) (user.User, error) {
	if _, ok := m.users[u.ID()]; !ok {
		return user.User{}, user.ErrNotFound
	}
	m.users[u.ID()] = u
	return u, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type stubBus struct {
	events []interface{}
}

func (b *stubBus) Publish(args ...interface{}) { b.events = append(b.events, args...) }
func (b *stubBus) Subscribe(interface{})       {}
func (b *stubBus) Unsubscribe(interface{})     {}
func (b *stubBus) Clear()                      {}
func (b *stubBus) SubscribersCount() int       { return 0 }

func newUserServiceFixture(t *testing.T) (*UserService, *mockUserRepo, *stubBus) {
	t.Helper()
	original := authorizeCoreFn
	authorizeCoreFn = func(context.Context, string, string) error { return nil }
	t.Cleanup(func() { authorizeCoreFn = original })

	repo := newMockUserRepo()
	bus := &stubBus{}
	return NewUserService(repo, bus), repo, bus
}

func TestUserService_Create(t *testing.T) {
	svc, _, bus := newUserServiceFixture(t)

	created, err := svc.Create(context.Background(), &user.CreateDTO{
		Email: "Jordan@KARS.local",
		Name:  "Jordan",
		Role:  string(workflow.RoleModerator),
	})
	require.NoError(t, err)
	require.Equal(t, "jordan@kars.local", created.Email())
	require.Equal(t, workflow.RoleModerator, created.Role())
	require.Len(t, bus.events, 1)
	require.IsType(t, user.CreatedEvent{}, bus.events[0])
}

func TestUserService_Create_EmailTaken(t *testing.T) {
	svc, repo, _ := newUserServiceFixture(t)
	_, err := repo.Create(context.Background(), user.New("jordan@kars.local", "Jordan", workflow.RoleUser, false))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &user.CreateDTO{
		Email: "jordan@kars.local",
		Name:  "Other",
		Role:  string(workflow.RoleUser),
	})
	require.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestUserService_Update_Role(t *testing.T) {
	svc, repo, _ := newUserServiceFixture(t)
	seeded, err := repo.Create(context.Background(), user.New("jordan@kars.local", "Jordan", workflow.RoleUser, false))
	require.NoError(t, err)

	role := string(workflow.RoleSupplier)
	isAdmin := true
	updated, err := svc.Update(context.Background(), seeded.ID(), &user.UpdateDTO{Role: &role, IsAdmin: &isAdmin})
	require.NoError(t, err)
	require.Equal(t, workflow.RoleSupplier, updated.Role())
	require.True(t, updated.IsAdmin())
	require.Equal(t, workflow.Actor{ID: seeded.ID(), Role: workflow.RoleSupplier, IsAdmin: true}, updated.Actor())
}

func TestUserService_Delete_Forbidden(t *testing.T) {
	svc, repo, _ := newUserServiceFixture(t)
	seeded, err := repo.Create(context.Background(), user.New("jordan@kars.local", "Jordan", workflow.RoleUser, false))
	require.NoError(t, err)

	denied := errors.New("denied")
	authorizeCoreFn = func(context.Context, string, string) error { return denied }
	require.ErrorIs(t, svc.Delete(context.Background(), seeded.ID()), denied)

	_, err = repo.GetByID(context.Background(), seeded.ID())
	require.NoError(t, err, "denied delete must not remove the user")
}
