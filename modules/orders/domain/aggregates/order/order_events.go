package order

import "github.com/kars-hq/kars/pkg/workflow"

type CreatedEvent struct {
	Result Order
}

type UpdatedEvent struct {
	Result Order
}

type StatusChangedEvent struct {
	Result  Order
	Actor   workflow.Actor
	Outcome workflow.Outcome
}

type DeletedEvent struct {
	ID uint
}
