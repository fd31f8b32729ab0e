package demo

import (
	"strings"
	"time"

	"github.com/kars-hq/kars/pkg/workflow"
)

// LineItem references a warehouse item loaned out for the demo.
type LineItem struct {
	ID       uint
	ItemID   uint
	Quantity int
	Memo     string
}

// Demo is an equipment loan that ships out and later comes back. It follows
// the order lifecycle plus one extra stage, demoCompleted, which restocks the
// loaned items.
type Demo struct {
	id           uint
	userID       uint
	teamID       uint
	warehouseID  uint
	title        string
	manager      string
	managerPhone string
	handler      string
	address      string
	startDate    time.Time
	endDate      time.Time
	memo         string
	status       workflow.Status
	items        []LineItem
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

func New(
	userID uint,
	teamID uint,
	warehouseID uint,
	title string,
	manager string,
	managerPhone string,
	handler string,
	address string,
	startDate time.Time,
	endDate time.Time,
	memo string,
	items []LineItem,
) Demo {
	return Demo{
		userID:       userID,
		teamID:       teamID,
		warehouseID:  warehouseID,
		title:        strings.TrimSpace(title),
		manager:      strings.TrimSpace(manager),
		managerPhone: strings.TrimSpace(managerPhone),
		handler:      strings.TrimSpace(handler),
		address:      strings.TrimSpace(address),
		startDate:    startDate,
		endDate:      endDate,
		memo:         strings.TrimSpace(memo),
		status:       workflow.StatusRequested,
		items:        items,
	}
}

func Hydrate(
	id uint,
	userID uint,
	teamID uint,
	warehouseID uint,
	title string,
	manager string,
	managerPhone string,
	handler string,
	address string,
	startDate time.Time,
	endDate time.Time,
	memo string,
	status workflow.Status,
	items []LineItem,
	createdAt time.Time,
	updatedAt time.Time,
	deletedAt *time.Time,
) Demo {
	return Demo{
		id:           id,
		userID:       userID,
		teamID:       teamID,
		warehouseID:  warehouseID,
		title:        title,
		manager:      manager,
		managerPhone: managerPhone,
		handler:      handler,
		address:      address,
		startDate:    startDate,
		endDate:      endDate,
		memo:         memo,
		status:       status,
		items:        items,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		deletedAt:    deletedAt,
	}
}

func (d Demo) ID() uint                { return d.id }
func (d Demo) UserID() uint            { return d.userID }
func (d Demo) TeamID() uint            { return d.teamID }
func (d Demo) WarehouseID() uint       { return d.warehouseID }
func (d Demo) Title() string           { return d.title }
func (d Demo) Manager() string         { return d.manager }
func (d Demo) ManagerPhone() string    { return d.managerPhone }
func (d Demo) Handler() string         { return d.handler }
func (d Demo) Address() string         { return d.address }
func (d Demo) StartDate() time.Time    { return d.startDate }
func (d Demo) EndDate() time.Time      { return d.endDate }
func (d Demo) Memo() string            { return d.memo }
func (d Demo) Status() workflow.Status { return d.status }
func (d Demo) Items() []LineItem       { return d.items }
func (d Demo) CreatedAt() time.Time    { return d.createdAt }
func (d Demo) UpdatedAt() time.Time    { return d.updatedAt }
func (d Demo) DeletedAt() *time.Time   { return d.deletedAt }
func (d Demo) IsZero() bool            { return d.id == 0 && d.userID == 0 }
func (d Demo) Editable() bool          { return d.status == workflow.StatusRequested }

// Record projects the demo into the workflow's record shape.
func (d Demo) Record() workflow.Record {
	return workflow.Record{
		ID:     d.id,
		UserID: d.userID,
		Kind:   workflow.KindDemo,
		Status: d.status,
	}
}

func (d Demo) WithStatus(status workflow.Status) Demo {
	d.status = status
	return d
}
