package viewmodels

import (
	"time"

	"github.com/kars-hq/kars/modules/demos/domain/aggregates/demo"
	"github.com/kars-hq/kars/pkg/workflow"
)

type LineItem struct {
	ID       uint   `json:"id"`
	ItemID   uint   `json:"itemId"`
	Quantity int    `json:"quantity"`
	Memo     string `json:"memo,omitempty"`
}

type Demo struct {
	ID                   uint              `json:"id"`
	UserID               uint              `json:"userId"`
	TeamID               uint              `json:"teamId"`
	WarehouseID          uint              `json:"warehouseId"`
	Title                string            `json:"demoTitle"`
	Manager              string            `json:"demoManager"`
	ManagerPhone         string            `json:"demoManagerPhone,omitempty"`
	Handler              string            `json:"handler,omitempty"`
	Address              string            `json:"demoAddress,omitempty"`
	StartDate            time.Time         `json:"demoStartDate"`
	EndDate              time.Time         `json:"demoEndDate"`
	Memo                 string            `json:"memo,omitempty"`
	Status               workflow.Status   `json:"status"`
	Items                []LineItem        `json:"items"`
	AvailableTransitions []workflow.Status `json:"availableTransitions,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

func DemoFromEntity(d demo.Demo) Demo {
	items := make([]LineItem, 0, len(d.Items()))
	for _, li := range d.Items() {
		items = append(items, LineItem{ID: li.ID, ItemID: li.ItemID, Quantity: li.Quantity, Memo: li.Memo})
	}
	return Demo{
		ID:           d.ID(),
		UserID:       d.UserID(),
		TeamID:       d.TeamID(),
		WarehouseID:  d.WarehouseID(),
		Title:        d.Title(),
		Manager:      d.Manager(),
		ManagerPhone: d.ManagerPhone(),
		Handler:      d.Handler(),
		Address:      d.Address(),
		StartDate:    d.StartDate(),
		EndDate:      d.EndDate(),
		Memo:         d.Memo(),
		Status:       d.Status(),
		Items:        items,
		CreatedAt:    d.CreatedAt(),
		UpdatedAt:    d.UpdatedAt(),
	}
}

// DemoForActor also reports the transitions the actor may perform.
func DemoForActor(d demo.Demo, actor workflow.Actor) Demo {
	vm := DemoFromEntity(d)
	vm.AvailableTransitions = workflow.AvailableTransitions(d.Record(), actor)
	return vm
}

func DemosFromEntities(demos []demo.Demo) []Demo {
	out := make([]Demo, 0, len(demos))
	for _, d := range demos {
		out = append(out, DemoFromEntity(d))
	}
	return out
}
