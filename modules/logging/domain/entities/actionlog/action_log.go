package actionlog

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/kars-hq/kars/pkg/workflow"
)

var ErrNotFound = errors.New("action log not found")

// ActionLog is one committed workflow transition, kept as an audit trail and
// as the source for user-facing notifications.
type ActionLog struct {
	ID           uint
	Kind         workflow.Kind
	RecordID     uint
	ActorID      uint
	From         workflow.Status
	To           workflow.Status
	Notification string
	CreatedAt    time.Time
}

type FindParams struct {
	Kind     workflow.Kind
	RecordID uint
	Limit    int
	Offset   int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]ActionLog, int64, error)
	Create(ctx context.Context, entry ActionLog) (ActionLog, error)
}
