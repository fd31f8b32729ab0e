package authz

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kars-hq/kars/pkg/workflow"
)

const testModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

const testPolicy = `p, role:admin, *, *
p, role:user, orders.order, read
p, role:user, orders.order, create
p, role:user, warehouse.*, read
`

func newTestService(t *testing.T, mode Mode) *Service {
	t.Helper()

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.conf")
	policyPath := filepath.Join(dir, "policy.csv")
	require.NoError(t, os.WriteFile(modelPath, []byte(testModel), 0o600))
	require.NoError(t, os.WriteFile(policyPath, []byte(testPolicy), 0o600))

	svc, err := NewService(Config{
		ModelPath:  modelPath,
		PolicyPath: policyPath,
		Mode:       mode,
	})
	require.NoError(t, err)
	return svc
}

func TestService_Authorize_Enforce(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	ctx := context.Background()

	require.NoError(t, svc.Authorize(ctx, NewRequest(
		SubjectForRole(workflow.RoleUser), ObjectName("orders", "order"), "read",
	)))
	require.NoError(t, svc.Authorize(ctx, NewRequest(
		SubjectForRole(workflow.RoleUser), ObjectName("warehouse", "item"), "read",
	)))
	require.NoError(t, svc.Authorize(ctx, NewRequest(
		SubjectForRole(workflow.RoleAdmin), ObjectName("core", "user"), "delete",
	)))

	err := svc.Authorize(ctx, NewRequest(
		SubjectForRole(workflow.RoleUser), ObjectName("core", "user"), "delete",
	))
	require.ErrorIs(t, err, ErrForbidden)
}

func TestService_Authorize_ShippedPolicy(t *testing.T) {
	svc, err := NewService(Config{
		ModelPath:  filepath.Join("..", "..", "config", "access", "model.conf"),
		PolicyPath: filepath.Join("..", "..", "config", "access", "policy.csv"),
		Mode:       ModeEnforce,
	})
	require.NoError(t, err)
	ctx := context.Background()

	// Every non-admin role may create and view its own records.
	for _, role := range []workflow.Role{workflow.RoleModerator, workflow.RoleUser, workflow.RoleSupplier} {
		for _, object := range []string{"orders.order", "demos.demo"} {
			require.NoError(t, svc.Authorize(ctx, NewRequest(SubjectForRole(role), object, "read")))
			require.NoError(t, svc.Authorize(ctx, NewRequest(SubjectForRole(role), object, "create")))
			require.NoError(t, svc.Authorize(ctx, NewRequest(SubjectForRole(role), object, "transition")))
		}
	}

	require.ErrorIs(t, svc.Authorize(ctx, NewRequest(
		SubjectForRole(workflow.RoleSupplier), ObjectName("core", "user"), "create",
	)), ErrForbidden)
	require.ErrorIs(t, svc.Authorize(ctx, NewRequest(
		SubjectForRole(workflow.RoleUser), ObjectName("orders", "order"), "delete",
	)), ErrForbidden)
}

func TestService_Authorize_Shadow(t *testing.T) {
	svc := newTestService(t, ModeShadow)

	err := svc.Authorize(context.Background(), NewRequest(
		SubjectForRole(workflow.RoleSupplier), ObjectName("core", "user"), "delete",
	))
	require.NoError(t, err)
}

func TestService_Authorize_Disabled(t *testing.T) {
	svc := newTestService(t, ModeDisabled)

	err := svc.Authorize(context.Background(), NewRequest(
		"role:nobody", ObjectName("core", "user"), "delete",
	))
	require.NoError(t, err)
}

func TestSubjectHelpers(t *testing.T) {
	require.Equal(t, "role:moderator", SubjectForRole(workflow.RoleModerator))
	require.Equal(t, "role:anonymous", SubjectForRole(""))
	require.Equal(t, "user:42", SubjectForUser(42))
	require.Equal(t, "orders.order", ObjectName(" Orders ", "Order"))
	require.Equal(t, "*", NormalizeAction("  "))
	require.Equal(t, "read", NormalizeAction("READ"))
}
