package composables

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kars-hq/kars/pkg/constants"
	"github.com/kars-hq/kars/pkg/repo"
)

var (
	ErrNoTx   = errors.New("no transaction found in context")
	ErrNoPool = errors.New("no database pool found in context")
)

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, constants.TxKey, tx)
}

// UseTx returns the transaction from the context, falling back to the pool
// so read paths work outside an explicit transaction.
func UseTx(ctx context.Context) (repo.Tx, error) {
	tx := ctx.Value(constants.TxKey)
	if tx == nil {
		return UsePool(ctx)
	}
	return tx.(repo.Tx), nil
}

func WithPool(ctx context.Context, pool *pgxpool.Pool) context.Context {
	return context.WithValue(ctx, constants.PoolKey, pool)
}

func UsePool(ctx context.Context) (*pgxpool.Pool, error) {
	pool := ctx.Value(constants.PoolKey)
	if pool == nil {
		return nil, ErrNoPool
	}
	return pool.(*pgxpool.Pool), nil
}

// InTx runs fn inside a transaction. An existing transaction on the context
// is reused; otherwise one is opened from the pool and committed when fn
// returns nil.
func InTx(ctx context.Context, fn func(context.Context) error) error {
	if existing, ok := ctx.Value(constants.TxKey).(pgx.Tx); ok && existing != nil {
		return fn(ctx)
	}

	pool, err := UsePool(ctx)
	if errors.Is(err, ErrNoPool) {
		// No database on the context: run fn as-is. Repository fakes in
		// tests take this path.
		return fn(ctx)
	}
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}

	txCtx := WithTxHooks(WithTx(ctx, tx))
	if err := fn(txCtx); err != nil {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			return errors.Join(err, rErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	RunCommitHooks(txCtx)
	return nil
}

// txHooks collects callbacks to run once the transaction owning the context
// commits. A pointer is stored so appends made deeper in the call chain are
// visible to the owner.
type txHooks struct {
	fns []func()
}

// WithTxHooks marks the context as owned by a transaction whose commit the
// caller controls. AfterCommit callbacks registered below it are held until
// RunCommitHooks.
func WithTxHooks(ctx context.Context) context.Context {
	return context.WithValue(ctx, constants.TxHooksKey, &txHooks{})
}

// AfterCommit defers fn until the transaction owning the context commits.
// Without an owner on the context fn runs immediately: by then any
// transaction the callee opened itself has already committed.
func AfterCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(constants.TxHooksKey).(*txHooks); ok {
		hooks.fns = append(hooks.fns, fn)
		return
	}
	fn()
}

// RunCommitHooks fires the callbacks registered since WithTxHooks. The
// transaction owner calls it once, after a successful commit.
func RunCommitHooks(ctx context.Context) {
	hooks, ok := ctx.Value(constants.TxHooksKey).(*txHooks)
	if !ok {
		return
	}
	fns := hooks.fns
	hooks.fns = nil
	for _, fn := range fns {
		fn()
	}
}

// InTxResult is InTx for functions that return a value.
func InTxResult[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := InTx(ctx, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = fn(txCtx)
		return innerErr
	})
	return out, err
}
