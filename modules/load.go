package modules

import (
	"github.com/kars-hq/kars/modules/core"
	"github.com/kars-hq/kars/modules/demos"
	"github.com/kars-hq/kars/modules/logging"
	"github.com/kars-hq/kars/modules/orders"
	"github.com/kars-hq/kars/modules/warehouse"
	"github.com/kars-hq/kars/pkg/application"
)

// BuiltInModules in registration order. Warehouse precedes orders and demos
// because both resolve its InventoryService during registration.
var BuiltInModules = []application.Module{
	core.NewModule(),
	warehouse.NewModule(),
	orders.NewModule(),
	demos.NewModule(),
	logging.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	return application.Load(app, externalModules...)
}
