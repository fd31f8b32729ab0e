package item

import (
	"strings"
	"time"
)

// Item is a stocked good in one warehouse. Quantity only changes through
// InventoryService.Adjust so the stock invariant holds.
type Item struct {
	id          uint
	warehouseID uint
	code        string
	name        string
	quantity    int
	unitPrice   int64
	memo        string
	createdAt   time.Time
	updatedAt   time.Time
}

func New(warehouseID uint, code, name string, quantity int, unitPrice int64, memo string) Item {
	return Item{
		warehouseID: warehouseID,
		code:        strings.TrimSpace(code),
		name:        strings.TrimSpace(name),
		quantity:    quantity,
		unitPrice:   unitPrice,
		memo:        strings.TrimSpace(memo),
	}
}

func Hydrate(
	id uint,
	warehouseID uint,
	code string,
	name string,
	quantity int,
	unitPrice int64,
	memo string,
	createdAt time.Time,
	updatedAt time.Time,
) Item {
	return Item{
		id:          id,
		warehouseID: warehouseID,
		code:        strings.TrimSpace(code),
		name:        strings.TrimSpace(name),
		quantity:    quantity,
		unitPrice:   unitPrice,
		memo:        strings.TrimSpace(memo),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (i Item) ID() uint             { return i.id }
func (i Item) WarehouseID() uint    { return i.warehouseID }
func (i Item) Code() string         { return i.code }
func (i Item) Name() string         { return i.name }
func (i Item) Quantity() int        { return i.quantity }
func (i Item) UnitPrice() int64     { return i.unitPrice }
func (i Item) Memo() string         { return i.memo }
func (i Item) CreatedAt() time.Time { return i.createdAt }
func (i Item) UpdatedAt() time.Time { return i.updatedAt }
func (i Item) IsZero() bool         { return i.id == 0 && i.code == "" }
