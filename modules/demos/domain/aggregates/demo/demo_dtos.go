package demo

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kars-hq/kars/pkg/constants"
	"github.com/kars-hq/kars/pkg/serrors"
	"github.com/kars-hq/kars/pkg/workflow"
)

type LineItemDTO struct {
	ItemID   uint   `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Memo     string `json:"memo"`
}

type CreateDTO struct {
	TeamID       uint          `json:"teamId" validate:"required"`
	WarehouseID  uint          `json:"warehouseId" validate:"required"`
	Title        string        `json:"demoTitle" validate:"required"`
	Manager      string        `json:"demoManager" validate:"required"`
	ManagerPhone string        `json:"demoManagerPhone" validate:"required"`
	Handler      string        `json:"handler" validate:"required"`
	Address      string        `json:"demoAddress" validate:"required"`
	StartDate    time.Time     `json:"demoStartDate" validate:"required"`
	EndDate      time.Time     `json:"demoEndDate" validate:"required,gtefield=StartDate"`
	Memo         string        `json:"memo"`
	Items        []LineItemDTO `json:"items" validate:"required,min=1,dive"`
}

func (d *CreateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Manager = strings.TrimSpace(d.Manager)
	d.ManagerPhone = strings.TrimSpace(d.ManagerPhone)
	d.Handler = strings.TrimSpace(d.Handler)
	d.Address = strings.TrimSpace(d.Address)
	d.Memo = strings.TrimSpace(d.Memo)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

// ToEntity builds a new demo owned by userID, always in requested status.
func (d *CreateDTO) ToEntity(userID uint) Demo {
	items := make([]LineItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, LineItem{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Memo:     strings.TrimSpace(it.Memo),
		})
	}
	return New(
		userID,
		d.TeamID,
		d.WarehouseID,
		d.Title,
		d.Manager,
		d.ManagerPhone,
		d.Handler,
		d.Address,
		d.StartDate,
		d.EndDate,
		d.Memo,
		items,
	)
}

type UpdateDTO struct {
	Title        *string        `json:"demoTitle"`
	Manager      *string        `json:"demoManager"`
	ManagerPhone *string        `json:"demoManagerPhone"`
	Handler      *string        `json:"handler"`
	Address      *string        `json:"demoAddress"`
	StartDate    *time.Time     `json:"demoStartDate"`
	EndDate      *time.Time     `json:"demoEndDate"`
	Memo         *string        `json:"memo"`
	Items        *[]LineItemDTO `json:"items"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	validationErrors := make(serrors.ValidationErrors)
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"Title", d.Title},
		{"Manager", d.Manager},
		{"ManagerPhone", d.ManagerPhone},
		{"Handler", d.Handler},
		{"Address", d.Address},
	} {
		if field.value != nil && strings.TrimSpace(*field.value) == "" {
			validationErrors[field.name] = "must not be empty"
		}
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		validationErrors["EndDate"] = "must not precede the start date"
	}
	if d.Items != nil {
		if len(*d.Items) == 0 {
			validationErrors["Items"] = "must contain at least one line item"
		}
		for _, it := range *d.Items {
			if it.Quantity <= 0 {
				validationErrors["Items"] = "quantities must be positive"
			}
		}
	}
	return validationErrors, len(validationErrors) == 0
}

// Apply overlays the set fields onto the existing demo.
func (d *UpdateDTO) Apply(existing Demo) Demo {
	title := existing.Title()
	if d.Title != nil {
		title = strings.TrimSpace(*d.Title)
	}
	manager := existing.Manager()
	if d.Manager != nil {
		manager = strings.TrimSpace(*d.Manager)
	}
	managerPhone := existing.ManagerPhone()
	if d.ManagerPhone != nil {
		managerPhone = strings.TrimSpace(*d.ManagerPhone)
	}
	handler := existing.Handler()
	if d.Handler != nil {
		handler = strings.TrimSpace(*d.Handler)
	}
	address := existing.Address()
	if d.Address != nil {
		address = strings.TrimSpace(*d.Address)
	}
	startDate := existing.StartDate()
	if d.StartDate != nil {
		startDate = *d.StartDate
	}
	endDate := existing.EndDate()
	if d.EndDate != nil {
		endDate = *d.EndDate
	}
	memo := existing.Memo()
	if d.Memo != nil {
		memo = strings.TrimSpace(*d.Memo)
	}
	items := existing.Items()
	if d.Items != nil {
		items = make([]LineItem, 0, len(*d.Items))
		for _, it := range *d.Items {
			items = append(items, LineItem{
				ItemID:   it.ItemID,
				Quantity: it.Quantity,
				Memo:     strings.TrimSpace(it.Memo),
			})
		}
	}
	return Hydrate(
		existing.ID(),
		existing.UserID(),
		existing.TeamID(),
		existing.WarehouseID(),
		title,
		manager,
		managerPhone,
		handler,
		address,
		startDate,
		endDate,
		memo,
		existing.Status(),
		items,
		existing.CreatedAt(),
		existing.UpdatedAt(),
		existing.DeletedAt(),
	)
}

type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

func (d *UpdateStatusDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Status = strings.TrimSpace(d.Status)
	validationErrors := make(serrors.ValidationErrors)
	if d.Status == "" {
		validationErrors["Status"] = "failed on the 'required' rule"
	} else if !workflow.ValidStatus(workflow.KindDemo, workflow.Status(d.Status)) {
		validationErrors["Status"] = "unknown status"
	}
	return validationErrors, len(validationErrors) == 0
}

func (d *UpdateStatusDTO) Target() workflow.Status {
	return workflow.Status(d.Status)
}
