package user

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kars-hq/kars/pkg/constants"
	"github.com/kars-hq/kars/pkg/serrors"
	"github.com/kars-hq/kars/pkg/workflow"
)

type CreateDTO struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required"`
	Role    string `json:"role" validate:"required"`
	IsAdmin bool   `json:"isAdmin"`
}

func (d *CreateDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Name = strings.TrimSpace(d.Name)
	d.Role = strings.TrimSpace(d.Role)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	validationErrors := make(serrors.ValidationErrors)
	if errs != nil {
		for field, msg := range serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)) {
			validationErrors[field] = msg
		}
	}
	if d.Role != "" && !workflow.ValidRole(workflow.Role(d.Role)) {
		validationErrors["Role"] = "unknown role"
	}
	return validationErrors, len(validationErrors) == 0
}

func (d *CreateDTO) ToEntity() User {
	return New(d.Email, d.Name, workflow.Role(d.Role), d.IsAdmin)
}

type UpdateDTO struct {
	Name    *string `json:"name"`
	Role    *string `json:"role"`
	IsAdmin *bool   `json:"isAdmin"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	validationErrors := make(serrors.ValidationErrors)
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		validationErrors["Name"] = "must not be empty"
	}
	if d.Role != nil && !workflow.ValidRole(workflow.Role(strings.TrimSpace(*d.Role))) {
		validationErrors["Role"] = "unknown role"
	}
	return validationErrors, len(validationErrors) == 0
}

// Apply folds the patch into an existing user.
func (d *UpdateDTO) Apply(u User) User {
	if d.Name != nil {
		u = u.WithName(*d.Name)
	}
	role := u.Role()
	isAdmin := u.IsAdmin()
	if d.Role != nil {
		role = workflow.Role(strings.TrimSpace(*d.Role))
	}
	if d.IsAdmin != nil {
		isAdmin = *d.IsAdmin
	}
	return u.WithRole(role, isAdmin)
}
