package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kars-hq/kars/pkg/workflow"
)

func setOf(statuses ...workflow.Status) workflow.StatusSet {
	return workflow.NewStatusSet(statuses...)
}

func TestPermittedTargets_DecisionTable(t *testing.T) {
	tests := []struct {
		name    string
		role    workflow.Role
		isOwner bool
		kind    workflow.Kind
		want    workflow.StatusSet
	}{
		{
			name: "moderator",
			role: workflow.RoleModerator,
			kind: workflow.KindOrder,
			want: setOf(workflow.StatusRequested, workflow.StatusApproved, workflow.StatusRejected),
		},
		{
			name:    "moderator owning the record loses approve and reject",
			role:    workflow.RoleModerator,
			isOwner: true,
			kind:    workflow.KindOrder,
			want:    setOf(workflow.StatusRequested),
		},
		{
			name: "admin order",
			role: workflow.RoleAdmin,
			kind: workflow.KindOrder,
			want: setOf(
				workflow.StatusApproved,
				workflow.StatusConfirmedByShipper,
				workflow.StatusShipmentCompleted,
				workflow.StatusRejectedByShipper,
			),
		},
		{
			name: "admin demo additionally gets demoCompleted",
			role: workflow.RoleAdmin,
			kind: workflow.KindDemo,
			want: setOf(
				workflow.StatusApproved,
				workflow.StatusConfirmedByShipper,
				workflow.StatusShipmentCompleted,
				workflow.StatusRejectedByShipper,
				workflow.StatusDemoCompleted,
			),
		},
		{name: "user is read-only", role: workflow.RoleUser, kind: workflow.KindOrder, want: setOf()},
		{name: "supplier is read-only", role: workflow.RoleSupplier, kind: workflow.KindDemo, want: setOf()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workflow.PermittedTargets(tt.role, tt.isOwner, tt.kind)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPermittedTargets_NoStatusOutsideTable(t *testing.T) {
	// Exhaustive sweep: no (role, owner, kind) combination ever yields a
	// status the decision table does not grant.
	roles := []workflow.Role{workflow.RoleAdmin, workflow.RoleModerator, workflow.RoleUser, workflow.RoleSupplier}
	for _, role := range roles {
		for _, isOwner := range []bool{false, true} {
			for _, kind := range []workflow.Kind{workflow.KindOrder, workflow.KindDemo} {
				got := workflow.PermittedTargets(role, isOwner, kind)
				for status := range got {
					require.True(t, workflow.ValidStatus(kind, status),
						"role=%s owner=%v kind=%s leaked status %s", role, isOwner, kind, status)
				}
				if role == workflow.RoleUser || role == workflow.RoleSupplier {
					require.Zero(t, got.Len())
				}
			}
		}
	}
}

func TestPermittedTargetsFor_IsAdminOverride(t *testing.T) {
	rec := workflow.Record{ID: 9, UserID: 2, Kind: workflow.KindOrder, Status: workflow.StatusRequested}

	// A plain user with the orthogonal isAdmin flag gets every status.
	actor := workflow.Actor{ID: 1, Role: workflow.RoleUser, IsAdmin: true}
	got := workflow.PermittedTargetsFor(actor, rec)
	require.Equal(t, len(workflow.Statuses(workflow.KindOrder)), got.Len())

	// The self-approval bar survives the override for moderators.
	owner := workflow.Actor{ID: 2, Role: workflow.RoleModerator, IsAdmin: true}
	got = workflow.PermittedTargetsFor(owner, rec)
	require.False(t, got.Has(workflow.StatusApproved))
	require.False(t, got.Has(workflow.StatusRejected))
}

func TestAvailableTransitions(t *testing.T) {
	rec := workflow.Record{ID: 1, UserID: 7, Kind: workflow.KindOrder, Status: workflow.StatusRequested}

	moderator := workflow.Actor{ID: 3, Role: workflow.RoleModerator}
	require.ElementsMatch(t,
		[]workflow.Status{workflow.StatusApproved, workflow.StatusRejected},
		workflow.AvailableTransitions(rec, moderator),
	)

	// The owner-moderator sees nothing at the first stage.
	ownerModerator := workflow.Actor{ID: 7, Role: workflow.RoleModerator}
	require.Empty(t, workflow.AvailableTransitions(rec, ownerModerator))

	rec.Status = workflow.StatusConfirmedByShipper
	admin := workflow.Actor{ID: 3, Role: workflow.RoleAdmin}
	require.ElementsMatch(t,
		[]workflow.Status{workflow.StatusShipmentCompleted, workflow.StatusRejectedByShipper},
		workflow.AvailableTransitions(rec, admin),
	)
}
