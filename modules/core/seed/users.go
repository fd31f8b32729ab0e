package seed

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/modules/core/domain/aggregates/user"
	"github.com/kars-hq/kars/modules/core/infrastructure/persistence"
	"github.com/kars-hq/kars/pkg/application"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/workflow"
)

// DefaultAdmin ensures the bootstrap admin account exists.
func DefaultAdmin(ctx context.Context, _ application.Application) error {
	repo := persistence.NewUserRepository()
	return composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := repo.GetByEmail(txCtx, "admin@kars.local")
		if err != nil && !errors.Is(err, user.ErrNotFound) {
			return err
		}
		if !existing.IsZero() {
			return nil
		}
		_, err = repo.Create(txCtx, user.New("admin@kars.local", "Administrator", workflow.RoleAdmin, true))
		return err
	})
}
