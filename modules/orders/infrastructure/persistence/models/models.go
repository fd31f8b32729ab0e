package models

import "time"

type Order struct {
	ID              uint
	UserID          uint
	TeamID          uint
	WarehouseID     uint
	Requester       string
	Receiver        string
	ReceiverPhone   string
	ReceiverAddress string
	PurchaseDate    time.Time
	Manager         string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

type OrderItem struct {
	ID       uint
	OrderID  uint
	ItemID   uint
	Quantity int
	Memo     string
}

type OrderAttachment struct {
	ID      uint
	OrderID uint
	Name    string
	URL     string
}
