package demo

import "github.com/kars-hq/kars/pkg/workflow"

type CreatedEvent struct {
	Result Demo
}

type UpdatedEvent struct {
	Result Demo
}

type StatusChangedEvent struct {
	Result  Demo
	Actor   workflow.Actor
	Outcome workflow.Outcome
}

type DeletedEvent struct {
	ID uint
}
