package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	demoaggregate "github.com/kars-hq/kars/modules/demos/domain/aggregates/demo"
	"github.com/kars-hq/kars/modules/logging/domain/entities/actionlog"
	"github.com/kars-hq/kars/modules/logging/services"
	orderaggregate "github.com/kars-hq/kars/modules/orders/domain/aggregates/order"
	"github.com/kars-hq/kars/pkg/application"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/metrics"
	"github.com/kars-hq/kars/pkg/workflow"
)

// RegisterWorkflowEventHandlers subscribes the audit writer to the status
// change events of both record kinds. Handlers run synchronously after the
// service transaction has committed; a failed audit write is logged and never
// fails the transition that already happened.
func RegisterWorkflowEventHandlers(app application.Application, logger *logrus.Logger) {
	svc := app.Service(services.LogsService{}).(*services.LogsService)
	sink := &workflowSink{app: app, service: svc, logger: logger}

	app.EventPublisher().Subscribe(func(event orderaggregate.StatusChangedEvent) {
		sink.record(event.Actor, event.Outcome)
	})
	app.EventPublisher().Subscribe(func(event demoaggregate.StatusChangedEvent) {
		sink.record(event.Actor, event.Outcome)
	})
}

type workflowSink struct {
	app     application.Application
	service *services.LogsService
	logger  *logrus.Logger
}

func (s *workflowSink) record(actor workflow.Actor, outcome workflow.Outcome) {
	s.logger.WithFields(logrus.Fields{
		"kind":     outcome.Kind,
		"recordId": outcome.RecordID,
		"from":     outcome.From,
		"to":       outcome.To,
		"actorId":  actor.ID,
	}).Info(outcome.Notification)
	metrics.ObserveTransition(outcome)

	ctx := composables.WithPool(context.Background(), s.app.DB())
	if _, err := s.service.Record(ctx, actionlog.ActionLog{
		Kind:         outcome.Kind,
		RecordID:     outcome.RecordID,
		ActorID:      actor.ID,
		From:         outcome.From,
		To:           outcome.To,
		Notification: outcome.Notification,
	}); err != nil {
		s.logger.WithError(err).Error("failed to write action log")
	}
}
