package warehouse

import (
	"strings"
	"time"
)

type Warehouse struct {
	id        uint
	name      string
	address   string
	createdAt time.Time
	updatedAt time.Time
}

func New(name, address string) Warehouse {
	return Warehouse{
		name:    strings.TrimSpace(name),
		address: strings.TrimSpace(address),
	}
}

func Hydrate(id uint, name, address string, createdAt, updatedAt time.Time) Warehouse {
	return Warehouse{
		id:        id,
		name:      strings.TrimSpace(name),
		address:   strings.TrimSpace(address),
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (w Warehouse) ID() uint             { return w.id }
func (w Warehouse) Name() string         { return w.name }
func (w Warehouse) Address() string      { return w.address }
func (w Warehouse) CreatedAt() time.Time { return w.createdAt }
func (w Warehouse) UpdatedAt() time.Time { return w.updatedAt }
func (w Warehouse) IsZero() bool         { return w.id == 0 && w.name == "" }

func (w Warehouse) Rename(name, address string) Warehouse {
	w.name = strings.TrimSpace(name)
	w.address = strings.TrimSpace(address)
	return w
}
