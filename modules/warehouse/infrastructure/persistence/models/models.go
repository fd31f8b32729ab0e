package models

import "time"

type Warehouse struct {
	ID        uint
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Item struct {
	ID          uint
	WarehouseID uint
	Code        string
	Name        string
	Quantity    int
	UnitPrice   int64
	Memo        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
