package item

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kars-hq/kars/pkg/constants"
	"github.com/kars-hq/kars/pkg/serrors"
)

type CreateDTO struct {
	WarehouseID uint   `json:"warehouseId" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	UnitPrice   int64  `json:"unitPrice" validate:"gte=0"`
	Memo        string `json:"memo"`
}

func (d *CreateDTO) Normalize() {
	d.Code = strings.TrimSpace(d.Code)
	d.Name = strings.TrimSpace(d.Name)
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

func (d *CreateDTO) ToEntity() Item {
	return New(d.WarehouseID, d.Code, d.Name, d.Quantity, d.UnitPrice, d.Memo)
}
