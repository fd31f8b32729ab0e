package viewmodels

import (
	"time"

	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/warehouse"
)

type Warehouse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func WarehouseFromEntity(w warehouse.Warehouse) Warehouse {
	return Warehouse{
		ID:        w.ID(),
		Name:      w.Name(),
		Address:   w.Address(),
		CreatedAt: w.CreatedAt(),
		UpdatedAt: w.UpdatedAt(),
	}
}

func WarehousesFromEntities(ws []warehouse.Warehouse) []Warehouse {
	out := make([]Warehouse, 0, len(ws))
	for _, w := range ws {
		out = append(out, WarehouseFromEntity(w))
	}
	return out
}

type Item struct {
	ID          uint      `json:"id"`
	WarehouseID uint      `json:"warehouseId"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unitPrice"`
	Memo        string    `json:"memo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ItemFromEntity(i item.Item) Item {
	return Item{
		ID:          i.ID(),
		WarehouseID: i.WarehouseID(),
		Code:        i.Code(),
		Name:        i.Name(),
		Quantity:    i.Quantity(),
		UnitPrice:   i.UnitPrice(),
		Memo:        i.Memo(),
		CreatedAt:   i.CreatedAt(),
		UpdatedAt:   i.UpdatedAt(),
	}
}

func ItemsFromEntities(items []item.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, i := range items {
		out = append(out, ItemFromEntity(i))
	}
	return out
}
