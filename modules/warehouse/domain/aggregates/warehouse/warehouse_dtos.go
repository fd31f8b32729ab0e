package warehouse

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kars-hq/kars/pkg/constants"
	"github.com/kars-hq/kars/pkg/serrors"
)

type CreateDTO struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Address = strings.TrimSpace(d.Address)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

func (d *CreateDTO) ToEntity() Warehouse {
	return New(d.Name, d.Address)
}

type UpdateDTO struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	validationErrors := make(serrors.ValidationErrors)
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		validationErrors["Name"] = "must not be empty"
	}
	if d.Address != nil && strings.TrimSpace(*d.Address) == "" {
		validationErrors["Address"] = "must not be empty"
	}
	return validationErrors, len(validationErrors) == 0
}

func (d *UpdateDTO) Apply(w Warehouse) Warehouse {
	name := w.Name()
	address := w.Address()
	if d.Name != nil {
		name = *d.Name
	}
	if d.Address != nil {
		address = *d.Address
	}
	return w.Rename(name, address)
}
