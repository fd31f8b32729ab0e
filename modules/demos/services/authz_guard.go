package services

import (
	"context"

	"github.com/kars-hq/kars/pkg/authz"
	"github.com/kars-hq/kars/pkg/composables"
)

const DemosAuthzObject = "demos.demo"

// authorizeDemosFn is swappable in tests.
var authorizeDemosFn = defaultAuthorizeDemos

func defaultAuthorizeDemos(ctx context.Context, object, action string) error {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return err
	}
	return authz.Use().Authorize(ctx, authz.NewRequest(authz.SubjectForRole(actor.Role), object, action))
}
