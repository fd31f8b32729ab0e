package workflow

// PermittedTargets is the role decision table: the set of statuses a role may
// move a record to, before intersecting with the structural graph.
//
// Moderators handle the first approval stage and may never approve or reject
// a record they created themselves. Admins handle the shipment stage.
// Plain users and suppliers are read-only participants.
func PermittedTargets(role Role, isOwner bool, kind Kind) StatusSet {
	switch role {
	case RoleModerator:
		s := NewStatusSet(StatusRequested, StatusApproved, StatusRejected)
		if isOwner {
			s.Remove(StatusApproved)
			s.Remove(StatusRejected)
		}
		return s
	case RoleAdmin:
		s := NewStatusSet(
			StatusApproved,
			StatusConfirmedByShipper,
			StatusShipmentCompleted,
			StatusRejectedByShipper,
		)
		if kind == KindDemo {
			s.Add(StatusDemoCompleted)
		}
		return s
	default:
		return StatusSet{}
	}
}

// PermittedTargetsFor applies the decision table to a concrete actor and
// record, folding in the orthogonal IsAdmin override. The self-approval bar
// is keyed on the moderator role and holds even for moderators that also
// carry the IsAdmin flag.
func PermittedTargetsFor(actor Actor, rec Record) StatusSet {
	isOwner := rec.OwnedBy(actor)
	if actor.IsAdmin {
		s := NewStatusSet(Statuses(rec.Kind)...)
		if actor.Role == RoleModerator && isOwner {
			s.Remove(StatusApproved)
			s.Remove(StatusRejected)
		}
		return s
	}
	return PermittedTargets(actor.Role, isOwner, rec.Kind)
}

// AvailableTransitions lists the statuses the actor may actually move the
// record to right now: the intersection of the role decision table with the
// structural edges from the record's current status. This is what a caller
// should offer as choices.
func AvailableTransitions(rec Record, actor Actor) []Status {
	permitted := PermittedTargetsFor(actor, rec)
	var out []Status
	for _, next := range EdgesFrom(rec.Kind, rec.Status) {
		if permitted.Has(next) {
			out = append(out, next)
		}
	}
	return out
}
