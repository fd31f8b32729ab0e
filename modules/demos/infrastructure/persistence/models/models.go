package models

import "time"

type Demo struct {
	ID           uint
	UserID       uint
	TeamID       uint
	WarehouseID  uint
	Title        string
	Manager      string
	ManagerPhone string
	Handler      string
	Address      string
	StartDate    time.Time
	EndDate      time.Time
	Memo         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type DemoItem struct {
	ID       uint
	DemoID   uint
	ItemID   uint
	Quantity int
	Memo     string
}
