package logging

import (
	"embed"
	"io/fs"

	"github.com/kars-hq/kars/modules/logging/infrastructure/persistence"
	"github.com/kars-hq/kars/modules/logging/presentation/controllers"
	"github.com/kars-hq/kars/modules/logging/services"
	"github.com/kars-hq/kars/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "logging"
}

func (m *Module) Register(app application.Application) error {
	schemaFS, err := fs.Sub(migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(m.Name(), schemaFS)

	app.RegisterServices(
		services.NewLogsService(persistence.NewActionLogRepository()),
	)
	app.RegisterControllers(
		controllers.NewLogsController(app),
	)
	return nil
}
