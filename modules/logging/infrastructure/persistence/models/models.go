package models

import "time"

type ActionLog struct {
	ID           uint
	Kind         string
	RecordID     uint
	ActorID      uint
	FromStatus   string
	ToStatus     string
	Notification string
	CreatedAt    time.Time
}
