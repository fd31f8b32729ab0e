package workflow

import "github.com/kars-hq/kars/pkg/serrors"

var (
	// ErrInvalidTransition: the target status is not structurally reachable
	// from the record's current status.
	ErrInvalidTransition = serrors.NewError(
		"WORKFLOW_INVALID_TRANSITION",
		"status transition is not allowed from the current status",
		"",
	)

	// ErrPermissionDenied: the actor's role does not grant the requested edge.
	ErrPermissionDenied = serrors.NewError(
		"WORKFLOW_PERMISSION_DENIED",
		"actor is not permitted to set this status",
		"",
	)

	// ErrSelfApproval carries the permission-denied code so callers matching
	// ErrPermissionDenied also catch it.
	ErrSelfApproval = ErrPermissionDenied.WithMessage(
		"a record must be approved or rejected by someone other than its requester",
	)

	ErrUnknownStatus = serrors.NewError(
		"WORKFLOW_UNKNOWN_STATUS",
		"status does not belong to this workflow",
		"",
	)
)
