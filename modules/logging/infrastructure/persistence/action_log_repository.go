package persistence

import (
	"context"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"

	"github.com/kars-hq/kars/modules/logging/domain/entities/actionlog"
	"github.com/kars-hq/kars/modules/logging/infrastructure/persistence/models"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/repo"
	"github.com/kars-hq/kars/pkg/workflow"
)

const actionLogColumns = `id, kind, record_id, actor_id, from_status, to_status, notification, created_at`

type PgActionLogRepository struct{}

func NewActionLogRepository() actionlog.Repository {
	return &PgActionLogRepository{}
}

func (r *PgActionLogRepository) GetPaginated(ctx context.Context, params *actionlog.FindParams) ([]actionlog.ActionLog, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"1 = 1"}
	args := []interface{}{}
	argPos := 1
	if params != nil && params.Kind != "" {
		where = append(where, fmt.Sprintf("kind = $%d", argPos))
		args = append(args, string(params.Kind))
		argPos++
	}
	if params != nil && params.RecordID != 0 {
		where = append(where, fmt.Sprintf("record_id = $%d", argPos))
		args = append(args, params.RecordID)
	}
	whereClause := strings.Join(where, " AND ")

	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM action_logs WHERE "+whereClause, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM action_logs WHERE %s ORDER BY created_at DESC, id DESC",
		actionLogColumns,
		whereClause,
	)
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []actionlog.ActionLog
	for rows.Next() {
		var m models.ActionLog
		if err := rows.Scan(
			&m.ID,
			&m.Kind,
			&m.RecordID,
			&m.ActorID,
			&m.FromStatus,
			&m.ToStatus,
			&m.Notification,
			&m.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, toEntity(m))
	}
	return out, count, rows.Err()
}

func (r *PgActionLogRepository) Create(ctx context.Context, entry actionlog.ActionLog) (actionlog.ActionLog, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return actionlog.ActionLog{}, err
	}
	if err := tx.QueryRow(
		ctx,
		`INSERT INTO action_logs (kind, record_id, actor_id, from_status, to_status, notification)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		string(entry.Kind),
		entry.RecordID,
		entry.ActorID,
		string(entry.From),
		string(entry.To),
		entry.Notification,
	).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return actionlog.ActionLog{}, gerrors.Wrap(err, "failed to create action log")
	}
	return entry, nil
}

func toEntity(m models.ActionLog) actionlog.ActionLog {
	return actionlog.ActionLog{
		ID:           m.ID,
		Kind:         workflow.Kind(m.Kind),
		RecordID:     m.RecordID,
		ActorID:      m.ActorID,
		From:         workflow.Status(m.FromStatus),
		To:           workflow.Status(m.ToStatus),
		Notification: m.Notification,
		CreatedAt:    m.CreatedAt,
	}
}
