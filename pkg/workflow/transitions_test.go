package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kars-hq/kars/pkg/workflow"
)

func TestEdgesFrom_OrderGraph(t *testing.T) {
	expected := map[workflow.Status][]workflow.Status{
		workflow.StatusRequested:          {workflow.StatusApproved, workflow.StatusRejected},
		workflow.StatusApproved:           {workflow.StatusConfirmedByShipper},
		workflow.StatusConfirmedByShipper: {workflow.StatusShipmentCompleted, workflow.StatusRejectedByShipper},
		workflow.StatusShipmentCompleted:  nil,
		workflow.StatusRejected:           nil,
		workflow.StatusRejectedByShipper:  nil,
	}
	for from, want := range expected {
		got := workflow.EdgesFrom(workflow.KindOrder, from)
		require.ElementsMatchf(t, want, got, "edges from %s", from)
	}
}

func TestEdgesFrom_DemoGraph(t *testing.T) {
	expected := map[workflow.Status][]workflow.Status{
		workflow.StatusRequested:          {workflow.StatusApproved, workflow.StatusRejected},
		workflow.StatusApproved:           {workflow.StatusConfirmedByShipper},
		workflow.StatusConfirmedByShipper: {workflow.StatusShipmentCompleted, workflow.StatusRejectedByShipper},
		workflow.StatusShipmentCompleted:  {workflow.StatusDemoCompleted},
		workflow.StatusRejected:           nil,
		workflow.StatusRejectedByShipper:  nil,
		workflow.StatusDemoCompleted:      nil,
	}
	for from, want := range expected {
		got := workflow.EdgesFrom(workflow.KindDemo, from)
		require.ElementsMatchf(t, want, got, "edges from %s", from)
	}
}

func TestShipmentCompleted_TerminalForOrders(t *testing.T) {
	require.True(t, workflow.IsTerminal(workflow.KindOrder, workflow.StatusShipmentCompleted))
	require.Empty(t, workflow.EdgesFrom(workflow.KindOrder, workflow.StatusShipmentCompleted))

	// The demo lifecycle continues to demoCompleted.
	require.False(t, workflow.IsTerminal(workflow.KindDemo, workflow.StatusShipmentCompleted))
}

func TestCanTransition_RejectsArbitraryJumps(t *testing.T) {
	require.False(t, workflow.CanTransition(workflow.KindOrder, workflow.StatusRequested, workflow.StatusShipmentCompleted))
	require.False(t, workflow.CanTransition(workflow.KindOrder, workflow.StatusRejected, workflow.StatusApproved))
	require.False(t, workflow.CanTransition(workflow.KindOrder, workflow.StatusShipmentCompleted, workflow.StatusDemoCompleted))
	require.True(t, workflow.CanTransition(workflow.KindDemo, workflow.StatusShipmentCompleted, workflow.StatusDemoCompleted))
}

func TestValidStatus(t *testing.T) {
	require.False(t, workflow.ValidStatus(workflow.KindOrder, workflow.StatusDemoCompleted))
	require.True(t, workflow.ValidStatus(workflow.KindDemo, workflow.StatusDemoCompleted))
	require.False(t, workflow.ValidStatus(workflow.KindOrder, workflow.Status("cancelled")))
}
