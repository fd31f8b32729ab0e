// Package workflow is the authoritative decision module for the order and
// demo approval lifecycles. It owns the status vocabulary, the structural
// transition table and the role decision table, and exposes a pure executor
// that callers drive from their own transactions. Nothing in this package
// performs I/O.
package workflow

// Kind selects which of the two parallel lifecycles a record follows.
type Kind string

const (
	KindOrder Kind = "order"
	KindDemo  Kind = "demo"
)

// Status is one stage of the approval-and-fulfillment lifecycle.
type Status string

const (
	StatusRequested          Status = "requested"
	StatusApproved           Status = "approved"
	StatusRejected           Status = "rejected"
	StatusConfirmedByShipper Status = "confirmedByShipper"
	StatusShipmentCompleted  Status = "shipmentCompleted"
	StatusRejectedByShipper  Status = "rejectedByShipper"

	// StatusDemoCompleted exists only in the demo lifecycle and signals the
	// loaned equipment has returned to the warehouse.
	StatusDemoCompleted Status = "demoCompleted"
)

var orderStatuses = []Status{
	StatusRequested,
	StatusApproved,
	StatusRejected,
	StatusConfirmedByShipper,
	StatusShipmentCompleted,
	StatusRejectedByShipper,
}

var demoStatuses = append(append([]Status{}, orderStatuses...), StatusDemoCompleted)

// Statuses returns the closed status set of the given lifecycle, in
// canonical order.
func Statuses(kind Kind) []Status {
	if kind == KindDemo {
		return append([]Status{}, demoStatuses...)
	}
	return append([]Status{}, orderStatuses...)
}

// ValidStatus reports whether s belongs to the lifecycle of kind.
func ValidStatus(kind Kind, s Status) bool {
	for _, known := range Statuses(kind) {
		if known == s {
			return true
		}
	}
	return false
}

// Role is the permission class of an authenticated actor.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
	RoleSupplier  Role = "supplier"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser, RoleSupplier:
		return true
	}
	return false
}

// Actor identifies who is requesting a transition. IsAdmin is orthogonal to
// Role and independently grants every structurally legal move.
type Actor struct {
	ID      uint
	Role    Role
	IsAdmin bool
}

// Record is the workflow-relevant slice of an order or demo record.
type Record struct {
	ID     uint
	UserID uint
	Kind   Kind
	Status Status
}

// OwnedBy reports whether the actor created the record.
func (r Record) OwnedBy(a Actor) bool {
	return r.UserID == a.ID
}

// StatusSet is an unordered set of statuses.
type StatusSet map[Status]struct{}

func NewStatusSet(statuses ...Status) StatusSet {
	s := make(StatusSet, len(statuses))
	for _, st := range statuses {
		s[st] = struct{}{}
	}
	return s
}

func (s StatusSet) Has(st Status) bool {
	_, ok := s[st]
	return ok
}

func (s StatusSet) Add(st Status)    { s[st] = struct{}{} }
func (s StatusSet) Remove(st Status) { delete(s, st) }
func (s StatusSet) Len() int         { return len(s) }
