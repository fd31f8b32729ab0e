package viewmodels

import (
	"time"

	"github.com/kars-hq/kars/modules/orders/domain/aggregates/order"
	"github.com/kars-hq/kars/pkg/workflow"
)

type LineItem struct {
	ID       uint   `json:"id"`
	ItemID   uint   `json:"itemId"`
	Quantity int    `json:"quantity"`
	Memo     string `json:"memo,omitempty"`
}

type Attachment struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
}

type Order struct {
	ID                   uint              `json:"id"`
	UserID               uint              `json:"userId"`
	TeamID               uint              `json:"teamId"`
	WarehouseID          uint              `json:"warehouseId"`
	Requester            string            `json:"requester"`
	Receiver             string            `json:"receiver"`
	ReceiverPhone        string            `json:"receiverPhone,omitempty"`
	ReceiverAddress      string            `json:"receiverAddress,omitempty"`
	PurchaseDate         time.Time         `json:"purchaseDate"`
	Manager              string            `json:"manager,omitempty"`
	Status               workflow.Status   `json:"status"`
	Items                []LineItem        `json:"items"`
	Attachments          []Attachment      `json:"attachments,omitempty"`
	AvailableTransitions []workflow.Status `json:"availableTransitions,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

func OrderFromEntity(o order.Order) Order {
	items := make([]LineItem, 0, len(o.Items()))
	for _, li := range o.Items() {
		items = append(items, LineItem{ID: li.ID, ItemID: li.ItemID, Quantity: li.Quantity, Memo: li.Memo})
	}
	attachments := make([]Attachment, 0, len(o.Attachments()))
	for _, a := range o.Attachments() {
		attachments = append(attachments, Attachment{Name: a.Name, URL: a.URL})
	}
	return Order{
		ID:              o.ID(),
		UserID:          o.UserID(),
		TeamID:          o.TeamID(),
		WarehouseID:     o.WarehouseID(),
		Requester:       o.Requester(),
		Receiver:        o.Receiver(),
		ReceiverPhone:   o.ReceiverPhone(),
		ReceiverAddress: o.ReceiverAddress(),
		PurchaseDate:    o.PurchaseDate(),
		Manager:         o.Manager(),
		Status:          o.Status(),
		Items:           items,
		Attachments:     attachments,
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

// OrderForActor also reports the transitions the actor may perform,
// so clients can render exactly the buttons the server will accept.
func OrderForActor(o order.Order, actor workflow.Actor) Order {
	vm := OrderFromEntity(o)
	vm.AvailableTransitions = workflow.AvailableTransitions(o.Record(), actor)
	return vm
}

func OrdersFromEntities(orders []order.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderFromEntity(o))
	}
	return out
}
