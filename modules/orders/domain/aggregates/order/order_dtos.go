package order

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

type AttachmentDTO struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
}

type CreateDTO struct {
	TeamID          uint            `json:"teamId" validate:"required"`
	WarehouseID     uint            `json:"warehouseId" validate:"required"`
	Requester       string          `json:"requester" validate:"required"`
	Receiver        string          `json:"receiver" validate:"required"`
	ReceiverPhone   string          `json:"receiverPhone" validate:"required"`
	ReceiverAddress string          `json:"receiverAddress" validate:"required"`
	PurchaseDate    time.Time       `json:"purchaseDate" validate:"required"`
	Manager         string          `json:"manager" validate:"required"`
	Items           []LineItemDTO   `json:"items" validate:"required,min=1,dive"`
	Attachments     []AttachmentDTO `json:"attachments" validate:"dive"`
}

func (d *CreateDTO) Normalize() {
	d.Requester = strings.TrimSpace(d.Requester)
	d.Receiver = strings.TrimSpace(d.Receiver)
	d.ReceiverPhone = strings.TrimSpace(d.ReceiverPhone)
	d.ReceiverAddress = strings.TrimSpace(d.ReceiverAddress)
	d.Manager = strings.TrimSpace(d.Manager)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

// ToEntity builds a new order owned by userID, always in requested status.
func (d *CreateDTO) ToEntity(userID uint) Order {
	items := make([]LineItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, LineItem{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Memo:     strings.TrimSpace(it.Memo),
		})
	}
	attachments := make([]Attachment, 0, len(d.Attachments))
	for _, a := range d.Attachments {
		attachments = append(attachments, Attachment{Name: a.Name, URL: a.URL})
	}
	return New(
		userID,
		d.TeamID,
		d.WarehouseID,
		d.Requester,
		d.Receiver,
		d.ReceiverPhone,
		d.ReceiverAddress,
		d.PurchaseDate,
		d.Manager,
		items,
		attachments,
	)
}

type UpdateDTO struct {
	Requester       *string        `json:"requester"`
	Receiver        *string        `json:"receiver"`
	ReceiverPhone   *string        `json:"receiverPhone"`
	ReceiverAddress *string        `json:"receiverAddress"`
	PurchaseDate    *time.Time     `json:"purchaseDate"`
	Manager         *string        `json:"manager"`
	Items           *[]LineItemDTO `json:"items"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	validationErrors := make(serrors.ValidationErrors)
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"Requester", d.Requester},
		{"Receiver", d.Receiver},
		{"ReceiverPhone", d.ReceiverPhone},
		{"ReceiverAddress", d.ReceiverAddress},
		{"Manager", d.Manager},
	} {
		if field.value != nil && strings.TrimSpace(*field.value) == "" {
			validationErrors[field.name] = "must not be empty"
		}
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

func (d *UpdateDTO) Apply(o Order) Order {
	requester := o.Requester()
	receiver := o.Receiver()
	receiverPhone := o.ReceiverPhone()
	receiverAddress := o.ReceiverAddress()
	purchaseDate := o.PurchaseDate()
	manager := o.Manager()
	items := o.Items()

	if d.Requester != nil {
		requester = strings.TrimSpace(*d.Requester)
	}
	if d.Receiver != nil {
		receiver = strings.TrimSpace(*d.Receiver)
	}
	if d.ReceiverPhone != nil {
		receiverPhone = strings.TrimSpace(*d.ReceiverPhone)
	}
	if d.ReceiverAddress != nil {
		receiverAddress = strings.TrimSpace(*d.ReceiverAddress)
	}
	if d.PurchaseDate != nil {
		purchaseDate = *d.PurchaseDate
	}
	if d.Manager != nil {
		manager = strings.TrimSpace(*d.Manager)
	}
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
		o.ID(),
		o.UserID(),
		o.TeamID(),
		o.WarehouseID(),
		requester,
		receiver,
		receiverPhone,
		receiverAddress,
		purchaseDate,
		manager,
		o.Status(),
		items,
		o.Attachments(),
		o.CreatedAt(),
		o.UpdatedAt(),
		o.DeletedAt(),
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
	} else if !workflow.ValidStatus(workflow.KindOrder, workflow.Status(d.Status)) {
		validationErrors["Status"] = "unknown status"
	}
	return validationErrors, len(validationErrors) == 0
}

func (d *UpdateStatusDTO) Target() workflow.Status {
	return workflow.Status(d.Status)
}
