package services

import (
	"context"

	"github.com/kars-hq/kars/pkg/authz"
	"github.com/kars-hq/kars/pkg/composables"
)

const OrdersAuthzObject = "orders.order"

// authorizeOrdersFn is swappable in tests.
var authorizeOrdersFn = defaultAuthorizeOrders

func defaultAuthorizeOrders(ctx context.Context, object, action string) error {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return err
	}
	return authz.Use().Authorize(ctx, authz.NewRequest(authz.SubjectForRole(actor.Role), object, action))
}
