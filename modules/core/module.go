package core

import (
	"embed"
	"io/fs"

	"github.com/kars-hq/kars/modules/core/infrastructure/persistence"
	"github.com/kars-hq/kars/modules/core/presentation/controllers"
	"github.com/kars-hq/kars/modules/core/seed"
	"github.com/kars-hq/kars/modules/core/services"
	"github.com/kars-hq/kars/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "core"
}

func (m *Module) Register(app application.Application) error {
	schemaFS, err := fs.Sub(migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(m.Name(), schemaFS)

	userRepo := persistence.NewUserRepository()
	app.RegisterServices(
		services.NewUserService(userRepo, app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewUsersController(app),
	)
	app.RegisterSeedFuncs(seed.DefaultAdmin)
	return nil
}
