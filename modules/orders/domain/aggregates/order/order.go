package order

import (
	"strings"
	"time"

	"github.com/kars-hq/kars/pkg/workflow"
)

// LineItem references a warehouse item with a requested quantity.
type LineItem struct {
	ID       uint
	ItemID   uint
	Quantity int
	Memo     string
}

// Attachment is a document linked to the request (quote, contract).
type Attachment struct {
	Name string
	URL  string
}

// Order is a purchase request that moves through the shipment workflow.
// Status changes only happen through the workflow executor.
type Order struct {
	id              uint
	userID          uint
	teamID          uint
	warehouseID     uint
	requester       string
	receiver        string
	receiverPhone   string
	receiverAddress string
	purchaseDate    time.Time
	manager         string
	status          workflow.Status
	items           []LineItem
	attachments     []Attachment
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

func New(
	userID uint,
	teamID uint,
	warehouseID uint,
	requester string,
	receiver string,
	receiverPhone string,
	receiverAddress string,
	purchaseDate time.Time,
	manager string,
	items []LineItem,
	attachments []Attachment,
) Order {
	return Order{
		userID:          userID,
		teamID:          teamID,
		warehouseID:     warehouseID,
		requester:       strings.TrimSpace(requester),
		receiver:        strings.TrimSpace(receiver),
		receiverPhone:   strings.TrimSpace(receiverPhone),
		receiverAddress: strings.TrimSpace(receiverAddress),
		purchaseDate:    purchaseDate,
		manager:         strings.TrimSpace(manager),
		status:          workflow.StatusRequested,
		items:           items,
		attachments:     attachments,
	}
}

func Hydrate(
	id uint,
	userID uint,
	teamID uint,
	warehouseID uint,
	requester string,
	receiver string,
	receiverPhone string,
	receiverAddress string,
	purchaseDate time.Time,
	manager string,
	status workflow.Status,
	items []LineItem,
	attachments []Attachment,
	createdAt time.Time,
	updatedAt time.Time,
	deletedAt *time.Time,
) Order {
	return Order{
		id:              id,
		userID:          userID,
		teamID:          teamID,
		warehouseID:     warehouseID,
		requester:       requester,
		receiver:        receiver,
		receiverPhone:   receiverPhone,
		receiverAddress: receiverAddress,
		purchaseDate:    purchaseDate,
		manager:         manager,
		status:          status,
		items:           items,
		attachments:     attachments,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		deletedAt:       deletedAt,
	}
}

func (o Order) ID() uint                  { return o.id }
func (o Order) UserID() uint              { return o.userID }
func (o Order) TeamID() uint              { return o.teamID }
func (o Order) WarehouseID() uint         { return o.warehouseID }
func (o Order) Requester() string         { return o.requester }
func (o Order) Receiver() string          { return o.receiver }
func (o Order) ReceiverPhone() string     { return o.receiverPhone }
func (o Order) ReceiverAddress() string   { return o.receiverAddress }
func (o Order) PurchaseDate() time.Time   { return o.purchaseDate }
func (o Order) Manager() string           { return o.manager }
func (o Order) Status() workflow.Status   { return o.status }
func (o Order) Items() []LineItem         { return o.items }
func (o Order) Attachments() []Attachment { return o.attachments }
func (o Order) CreatedAt() time.Time      { return o.createdAt }
func (o Order) UpdatedAt() time.Time      { return o.updatedAt }
func (o Order) DeletedAt() *time.Time     { return o.deletedAt }
func (o Order) IsZero() bool              { return o.id == 0 && o.userID == 0 }
func (o Order) Editable() bool            { return o.status == workflow.StatusRequested }

// Record projects the order into the workflow's record shape.
func (o Order) Record() workflow.Record {
	return workflow.Record{
		ID:     o.id,
		UserID: o.userID,
		Kind:   workflow.KindOrder,
		Status: o.status,
	}
}

func (o Order) WithStatus(status workflow.Status) Order {
	o.status = status
	return o
}
