// Package application wires modules, services and controllers into a single
// runnable unit. Services are registered and resolved by concrete type.
package application

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/kars-hq/kars/pkg/cache"
	"github.com/kars-hq/kars/pkg/eventbus"
)

// Controller registers a group of routes under the application router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module bundles the services, controllers and migrations of one domain area.
type Module interface {
	Name() string
	Register(app Application) error
}

// SeedFunc populates initial data for a module.
type SeedFunc func(ctx context.Context, app Application) error

type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Invalidator() cache.Invalidator
	Migrations() MigrationManager

	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}

	RegisterControllers(controllers ...Controller)
	Controllers() []Controller

	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	Middleware() []mux.MiddlewareFunc

	RegisterSeedFuncs(seedFuncs ...SeedFunc)
	Seed(ctx context.Context) error
}

type ApplicationOptions struct {
	Pool        *pgxpool.Pool
	EventBus    eventbus.EventBus
	Invalidator cache.Invalidator
	Logger      *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	invalidator := opts.Invalidator
	if invalidator == nil {
		invalidator = cache.NewLogInvalidator(opts.Logger)
	}
	return &application{
		pool:           opts.Pool,
		eventPublisher: opts.EventBus,
		invalidator:    invalidator,
		logger:         opts.Logger,
		controllers:    make(map[string]Controller),
		services:       make(map[reflect.Type]interface{}),
		migrations:     NewMigrationManager(),
	}
}

type application struct {
	pool           *pgxpool.Pool
	eventPublisher eventbus.EventBus
	invalidator    cache.Invalidator
	logger         *logrus.Logger
	services       map[reflect.Type]interface{}
	controllers    map[string]Controller
	middleware     []mux.MiddlewareFunc
	migrations     MigrationManager
	seedFuncs      []SeedFunc
}

func (app *application) DB() *pgxpool.Pool {
	return app.pool
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.eventPublisher
}

func (app *application) Invalidator() cache.Invalidator {
	return app.invalidator
}

func (app *application) Migrations() MigrationManager {
	return app.migrations
}

func (app *application) Middleware() []mux.MiddlewareFunc {
	return app.middleware
}

func (app *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	app.middleware = append(app.middleware, middleware...)
}

func (app *application) Controllers() []Controller {
	controllers := make([]Controller, 0, len(app.controllers))
	for _, c := range app.controllers {
		controllers = append(controllers, c)
	}
	return controllers
}

func (app *application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		app.controllers[c.Key()] = c
	}
}

// RegisterServices registers a new service in the application by its type.
func (app *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service retrieves a service by its type.
func (app *application) Service(service interface{}) interface{} {
	serviceType := reflect.TypeOf(service)
	svc, exists := app.services[serviceType]
	if !exists {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (app *application) Services() map[reflect.Type]interface{} {
	return app.services
}

func (app *application) RegisterSeedFuncs(seedFuncs ...SeedFunc) {
	app.seedFuncs = append(app.seedFuncs, seedFuncs...)
}

func (app *application) Seed(ctx context.Context) error {
	for _, seedFunc := range app.seedFuncs {
		if app.logger != nil {
			app.logger.Infof("seeding %s", reflect.TypeOf(seedFunc).String())
		}
		if err := seedFunc(ctx, app); err != nil {
			return err
		}
	}
	return nil
}

// Load registers every module against the application in order.
func Load(app Application, modules ...Module) error {
	for _, module := range modules {
		if err := module.Register(app); err != nil {
			return fmt.Errorf("failed to register module %s: %w", module.Name(), err)
		}
	}
	return nil
}
