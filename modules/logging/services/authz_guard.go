package services

import (
	"context"

	"github.com/kars-hq/kars/pkg/authz"
	"github.com/kars-hq/kars/pkg/composables"
)

const LogsAuthzObject = "logging.actionlog"

// authorizeLogsFn is swappable in tests.
var authorizeLogsFn = defaultAuthorizeLogs

func defaultAuthorizeLogs(ctx context.Context, object, action string) error {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return err
	}
	return authz.Use().Authorize(ctx, authz.NewRequest(authz.SubjectForRole(actor.Role), object, action))
}
