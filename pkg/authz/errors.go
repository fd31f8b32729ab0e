package authz

import (
	"fmt"

	"github.com/kars-hq/kars/pkg/serrors"
)

// ErrForbidden is the sentinel for denied policy decisions.
var ErrForbidden = serrors.NewError(
	"AUTHZ_FORBIDDEN",
	"permission denied",
	"the current role is not allowed to perform this action",
)

func forbiddenError(req Request) *serrors.Error {
	return ErrForbidden.WithMessage(fmt.Sprintf(
		"subject %q may not %s %s", req.Subject, req.Action, req.Object,
	))
}

func configError(msg string, args ...any) error {
	return fmt.Errorf("authz: "+msg, args...)
}
