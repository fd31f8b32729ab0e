package application

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"

	"github.com/kars-hq/kars/pkg/configuration"
)

// MigrationManager applies module schemas with goose. Each module gets its own
// version table so module version numbers never collide.
type MigrationManager interface {
	RegisterSchema(module string, fsys fs.FS)
	Run(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type moduleSchema struct {
	module string
	fsys   fs.FS
}

type migrationManager struct {
	schemas []moduleSchema
}

func NewMigrationManager() MigrationManager {
	return &migrationManager{}
}

func (m *migrationManager) RegisterSchema(module string, fsys fs.FS) {
	m.schemas = append(m.schemas, moduleSchema{module: module, fsys: fsys})
}

func (m *migrationManager) open() (*sql.DB, error) {
	conf := configuration.Use()
	db, err := sql.Open("postgres", conf.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}
	return db, nil
}

func (m *migrationManager) provider(db *sql.DB, schema moduleSchema) (*goose.Provider, error) {
	store, err := database.NewStore(database.DialectPostgres, "goose_version_"+schema.module)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration store for %s: %w", schema.module, err)
	}
	p, err := goose.NewProvider("", db, schema.fsys, goose.WithStore(store))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider for %s: %w", schema.module, err)
	}
	return p, nil
}

func (m *migrationManager) Run(ctx context.Context) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, schema := range m.schemas {
		p, err := m.provider(db, schema)
		if err != nil {
			return err
		}
		if _, err := p.Up(ctx); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", schema.module, err)
		}
	}
	return nil
}

// Rollback reverts the most recent migration of every registered module.
func (m *migrationManager) Rollback(ctx context.Context) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, schema := range m.schemas {
		p, err := m.provider(db, schema)
		if err != nil {
			return err
		}
		if _, err := p.Down(ctx); err != nil {
			return fmt.Errorf("failed to rollback %s: %w", schema.module, err)
		}
	}
	return nil
}
