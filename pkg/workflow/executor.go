package workflow

import (
	"fmt"

	"github.com/go-faster/errors"
)

// InventoryEffect is the stock side effect a transition carries.
type InventoryEffect string

const (
	EffectNone      InventoryEffect = ""
	EffectDecrement InventoryEffect = "decrement"
	EffectRestock   InventoryEffect = "restock"
)

// Resource names a logical cache grouping that becomes stale after a
// successful transition. Clients subscribe to these instead of polling.
type Resource string

const (
	ResourceWarehouseItems   Resource = "warehouseItems"
	ResourceInventoryRecords Resource = "inventoryRecords"
	ResourceItems            Resource = "items"
	ResourceWarehouse        Resource = "warehouse"
	ResourceDemos            Resource = "demos"
	ResourcePurchase         Resource = "purchase"
	ResourceSales            Resource = "sales"
)

// Outcome describes an accepted transition: what moved where, which stock
// effect the caller must apply in the same transaction, which cached
// resources to invalidate after commit, and a user-facing notification.
type Outcome struct {
	RecordID     uint
	Kind         Kind
	From         Status
	To           Status
	Effect       InventoryEffect
	Stale        []Resource
	Notification string
}

// Execute validates a requested transition against the structural graph and
// the role decision table. It mutates nothing: on success the caller persists
// the new status and applies Outcome.Effect atomically with it.
//
// Callers must pass a record freshly read under a row lock; a stale record
// whose status already advanced fails here with ErrInvalidTransition, which
// is what makes duplicate submissions harmless.
func Execute(rec Record, actor Actor, target Status) (Outcome, error) {
	if !ValidStatus(rec.Kind, target) {
		return Outcome{}, errors.Wrapf(ErrUnknownStatus, "%q is not a %s status", target, rec.Kind)
	}
	if !CanTransition(rec.Kind, rec.Status, target) {
		return Outcome{}, errors.Wrapf(ErrInvalidTransition, "%s -> %s", rec.Status, target)
	}
	if actor.Role == RoleModerator && rec.OwnedBy(actor) &&
		(target == StatusApproved || target == StatusRejected) {
		return Outcome{}, ErrSelfApproval
	}
	if !PermittedTargetsFor(actor, rec).Has(target) {
		return Outcome{}, errors.Wrapf(ErrPermissionDenied, "role %s may not set %s", actor.Role, target)
	}

	out := Outcome{
		RecordID: rec.ID,
		Kind:     rec.Kind,
		From:     rec.Status,
		To:       target,
	}
	switch {
	case target == StatusShipmentCompleted:
		out.Effect = EffectDecrement
	case rec.Kind == KindDemo && target == StatusDemoCompleted:
		out.Effect = EffectRestock
	}
	out.Stale = staleResources(rec.Kind, target, out.Effect)
	out.Notification = notification(rec.Kind, target, out.Effect)
	return out, nil
}

func staleResources(kind Kind, _ Status, effect InventoryEffect) []Resource {
	stale := []Resource{ResourcePurchase}
	if kind == KindDemo {
		stale = []Resource{ResourceDemos}
	}
	if effect == EffectNone {
		return stale
	}
	stale = append(stale,
		ResourceWarehouseItems,
		ResourceInventoryRecords,
		ResourceItems,
		ResourceWarehouse,
	)
	if kind == KindOrder && effect == EffectDecrement {
		stale = append(stale, ResourceSales)
	}
	return stale
}

func notification(kind Kind, target Status, effect InventoryEffect) string {
	switch effect {
	case EffectDecrement:
		if kind == KindDemo {
			return "demo shipment completed, inventory updated"
		}
		return "shipment completed, inventory updated"
	case EffectRestock:
		return "demo completed, inventory restocked"
	}
	return fmt.Sprintf("%s status changed to %s", kind, target)
}
