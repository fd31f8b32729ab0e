package viewmodels

import (
	"time"

	"github.com/kars-hq/kars/modules/logging/domain/entities/actionlog"
	"github.com/kars-hq/kars/pkg/workflow"
)

type ActionLog struct {
	ID           uint            `json:"id"`
	Kind         workflow.Kind   `json:"kind"`
	RecordID     uint            `json:"recordId"`
	ActorID      uint            `json:"actorId"`
	From         workflow.Status `json:"from"`
	To           workflow.Status `json:"to"`
	Notification string          `json:"notification,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func ActionLogFromEntity(l actionlog.ActionLog) ActionLog {
	return ActionLog{
		ID:           l.ID,
		Kind:         l.Kind,
		RecordID:     l.RecordID,
		ActorID:      l.ActorID,
		From:         l.From,
		To:           l.To,
		Notification: l.Notification,
		CreatedAt:    l.CreatedAt,
	}
}

func ActionLogsFromEntities(logs []actionlog.ActionLog) []ActionLog {
	out := make([]ActionLog, 0, len(logs))
	for _, l := range logs {
		out = append(out, ActionLogFromEntity(l))
	}
	return out
}
