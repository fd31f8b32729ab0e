package composables

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAfterCommit_ImmediateWithoutOwner(t *testing.T) {
	var ran bool
	AfterCommit(context.Background(), func() { ran = true })
	require.True(t, ran)
}

func TestAfterCommit_DeferredUntilOwnerRuns(t *testing.T) {
	ctx := WithTxHooks(context.Background())

	var order []string
	AfterCommit(ctx, func() { order = append(order, "first") })
	AfterCommit(ctx, func() { order = append(order, "second") })
	require.Empty(t, order)

	RunCommitHooks(ctx)
	require.Equal(t, []string{"first", "second"}, order)

	// A second run must not replay the hooks.
	RunCommitHooks(ctx)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestInTx_NoPoolRunsDirectly(t *testing.T) {
	ctx := context.Background()

	var got context.Context
	err := InTx(ctx, func(txCtx context.Context) error {
		got = txCtx
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, ctx, got)
}
