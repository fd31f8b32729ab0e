package demos

import (
	"embed"
	"io/fs"

	"github.com/kars-hq/kars/modules/demos/infrastructure/persistence"
	"github.com/kars-hq/kars/modules/demos/presentation/controllers"
	"github.com/kars-hq/kars/modules/demos/services"
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
	return "demos"
}

// Register expects the warehouse module to be loaded first because demo
// shipments and returns move stock through its InventoryService.
func (m *Module) Register(app application.Application) error {
	schemaFS, err := fs.Sub(migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(m.Name(), schemaFS)

	inventory := app.Service(warehouseservices.InventoryService{}).(*warehouseservices.InventoryService)
	app.RegisterServices(
		services.NewDemoService(
			persistence.NewDemoRepository(),
			inventory,
			app.EventPublisher(),
			app.Invalidator(),
		),
	)
	app.RegisterControllers(
		controllers.NewDemosController(app),
	)
	return nil
}
