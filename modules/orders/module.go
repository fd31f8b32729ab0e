package orders

import (
	"embed"
	"io/fs"

	"github.com/kars-hq/kars/modules/orders/infrastructure/persistence"
	"github.com/kars-hq/kars/modules/orders/presentation/controllers"
	"github.com/kars-hq/kars/modules/orders/services"
	warehouseservices "github.com/kars-hq/kars/modules/warehouse/services"
	"github.com/kars-hq/kars/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "orders"
}

// Register expects the warehouse module to be loaded first because the
// order workflow moves stock through its InventoryService.
func (m *Module) Register(app application.Application) error {
	schemaFS, err := fs.Sub(migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(m.Name(), schemaFS)

	inventory := app.Service(warehouseservices.InventoryService{}).(*warehouseservices.InventoryService)
	app.RegisterServices(
		services.NewOrderService(
			persistence.NewOrderRepository(),
			inventory,
			app.EventPublisher(),
			app.Invalidator(),
		),
	)
	app.RegisterControllers(
		controllers.NewOrdersController(app),
	)
	return nil
}
