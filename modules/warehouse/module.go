package warehouse

import (
	"embed"
	"io/fs"

	"github.com/kars-hq/kars/modules/warehouse/infrastructure/persistence"
	"github.com/kars-hq/kars/modules/warehouse/presentation/controllers"
	"github.com/kars-hq/kars/modules/warehouse/services"
	"github.com/kars-hq/kars/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "warehouse"
}

func (m *Module) Register(app application.Application) error {
	schemaFS, err := fs.Sub(migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(m.Name(), schemaFS)

	warehouseRepo := persistence.NewWarehouseRepository()
	itemRepo := persistence.NewItemRepository()
	app.RegisterServices(
		services.NewWarehouseService(warehouseRepo, app.EventPublisher()),
		services.NewItemService(itemRepo),
		services.NewInventoryService(itemRepo),
	)
	app.RegisterControllers(
		controllers.NewWarehousesController(app),
	)
	return nil
}
