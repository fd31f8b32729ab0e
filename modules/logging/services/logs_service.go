package services

import (
	"context"

	"github.com/kars-hq/kars/modules/logging/domain/entities/actionlog"
	"github.com/kars-hq/kars/pkg/composables"
)

type LogsService struct {
	actionLogs actionlog.Repository
}

func NewLogsService(actionLogs actionlog.Repository) *LogsService {
	return &LogsService{actionLogs: actionLogs}
}

func (s *LogsService) GetPaginated(ctx context.Context, params *actionlog.FindParams) ([]actionlog.ActionLog, int64, error) {
	if err := authorizeLogsFn(ctx, LogsAuthzObject, "read"); err != nil {
		return nil, 0, err
	}
	return s.actionLogs.GetPaginated(ctx, params)
}

// Record persists one transition entry. Called from event handlers, outside
// any request transaction.
func (s *LogsService) Record(ctx context.Context, entry actionlog.ActionLog) (actionlog.ActionLog, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (actionlog.ActionLog, error) {
		return s.actionLogs.Create(txCtx, entry)
	})
}
