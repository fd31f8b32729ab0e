package workflow_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kars-hq/kars/pkg/workflow"
)

func orderIn(status workflow.Status) workflow.Record {
	return workflow.Record{ID: 42, UserID: 7, Kind: workflow.KindOrder, Status: status}
}

func demoIn(status workflow.Status) workflow.Record {
	return workflow.Record{ID: 43, UserID: 7, Kind: workflow.KindDemo, Status: status}
}

var admin = workflow.Actor{ID: 1, Role: workflow.RoleAdmin}

func TestExecute_ApprovedToConfirmedByShipper_NoInventoryEffect(t *testing.T) {
	out, err := workflow.Execute(orderIn(workflow.StatusApproved), admin, workflow.StatusConfirmedByShipper)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusApproved, out.From)
	require.Equal(t, workflow.StatusConfirmedByShipper, out.To)
	require.Equal(t, workflow.EffectNone, out.Effect)
	require.ElementsMatch(t, []workflow.Resource{workflow.ResourcePurchase}, out.Stale)
}

func TestExecute_ShipmentCompleted_DecrementsOnce(t *testing.T) {
	rec := orderIn(workflow.StatusConfirmedByShipper)
	out, err := workflow.Execute(rec, admin, workflow.StatusShipmentCompleted)
	require.NoError(t, err)
	require.Equal(t, workflow.EffectDecrement, out.Effect)
	require.Contains(t, out.Stale, workflow.ResourceWarehouseItems)
	require.Contains(t, out.Stale, workflow.ResourceInventoryRecords)
	require.Contains(t, out.Stale, workflow.ResourceSales)

	// Once shipped the order is immutable: any further move is rejected, so
	// the inventory effect cannot fire a second time.
	rec.Status = workflow.StatusShipmentCompleted
	for _, target := range workflow.Statuses(workflow.KindOrder) {
		_, err := workflow.Execute(rec, admin, target)
		require.Error(t, err, "from shipmentCompleted to %s", target)
		require.ErrorIs(t, err, workflow.ErrInvalidTransition)
	}
}

func TestExecute_DemoCompleted_Restocks(t *testing.T) {
	out, err := workflow.Execute(demoIn(workflow.StatusShipmentCompleted), admin, workflow.StatusDemoCompleted)
	require.NoError(t, err)
	require.Equal(t, workflow.EffectRestock, out.Effect)
	require.Contains(t, out.Stale, workflow.ResourceDemos)
	require.Contains(t, out.Stale, workflow.ResourceWarehouseItems)
	require.NotContains(t, out.Stale, workflow.ResourceSales)

	// Restock is a one-shot: demoCompleted is terminal.
	done := demoIn(workflow.StatusDemoCompleted)
	_, err = workflow.Execute(done, admin, workflow.StatusShipmentCompleted)
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestExecute_SelfApprovalPrevented(t *testing.T) {
	rec := orderIn(workflow.StatusRequested) // owned by user 7
	ownerModerator := workflow.Actor{ID: 7, Role: workflow.RoleModerator}

	for _, target := range []workflow.Status{workflow.StatusApproved, workflow.StatusRejected} {
		_, err := workflow.Execute(rec, ownerModerator, target)
		require.ErrorIs(t, err, workflow.ErrPermissionDenied)
		require.ErrorIs(t, err, workflow.ErrSelfApproval)
	}

	// A different moderator may approve it.
	other := workflow.Actor{ID: 8, Role: workflow.RoleModerator}
	out, err := workflow.Execute(rec, other, workflow.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusApproved, out.To)
}

func TestExecute_ReadOnlyRolesDenied(t *testing.T) {
	rec := orderIn(workflow.StatusRequested)
	for _, role := range []workflow.Role{workflow.RoleUser, workflow.RoleSupplier} {
		actor := workflow.Actor{ID: 2, Role: role}
		_, err := workflow.Execute(rec, actor, workflow.StatusApproved)
		require.ErrorIs(t, err, workflow.ErrPermissionDenied)
	}
}

func TestExecute_DuplicateSubmissionIsNoOp(t *testing.T) {
	rec := orderIn(workflow.StatusConfirmedByShipper)
	first, err := workflow.Execute(rec, admin, workflow.StatusShipmentCompleted)
	require.NoError(t, err)
	require.Equal(t, workflow.EffectDecrement, first.Effect)

	// The second submission re-reads the record and sees the advanced
	// status; the same target is now structurally illegal.
	rec.Status = first.To
	_, err = workflow.Execute(rec, admin, workflow.StatusShipmentCompleted)
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestExecute_UnknownStatus(t *testing.T) {
	_, err := workflow.Execute(orderIn(workflow.StatusRequested), admin, workflow.Status("archived"))
	require.ErrorIs(t, err, workflow.ErrUnknownStatus)

	// demoCompleted is not an order status.
	_, err = workflow.Execute(orderIn(workflow.StatusShipmentCompleted), admin, workflow.StatusDemoCompleted)
	require.ErrorIs(t, err, workflow.ErrUnknownStatus)
}

func TestExecute_IsAdminStillBoundByGraph(t *testing.T) {
	actor := workflow.Actor{ID: 1, Role: workflow.RoleUser, IsAdmin: true}
	_, err := workflow.Execute(orderIn(workflow.StatusRequested), actor, workflow.StatusShipmentCompleted)
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)

	out, err := workflow.Execute(orderIn(workflow.StatusRequested), actor, workflow.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusApproved, out.To)
}

func TestExecute_NotificationMessages(t *testing.T) {
	out, err := workflow.Execute(orderIn(workflow.StatusRequested), workflow.Actor{ID: 2, Role: workflow.RoleModerator}, workflow.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, "order status changed to approved", out.Notification)

	out, err = workflow.Execute(demoIn(workflow.StatusShipmentCompleted), admin, workflow.StatusDemoCompleted)
	require.NoError(t, err)
	require.Equal(t, "demo completed, inventory restocked", out.Notification)
}

func TestSentinelErrorsAreDistinguishable(t *testing.T) {
	require.False(t, errors.Is(workflow.ErrInvalidTransition, workflow.ErrPermissionDenied))
	require.False(t, errors.Is(workflow.ErrPermissionDenied, workflow.ErrInvalidTransition))
}
