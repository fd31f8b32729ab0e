package workflow

// The structural transition graph, independent of who asks. shipmentCompleted
// is terminal for orders and immutable once set; demos add one further edge
// to demoCompleted when the equipment comes back.
var orderEdges = map[Status][]Status{
	StatusRequested:          {StatusApproved, StatusRejected},
	StatusApproved:           {StatusConfirmedByShipper},
	StatusConfirmedByShipper: {StatusShipmentCompleted, StatusRejectedByShipper},
	StatusShipmentCompleted:  {},
	StatusRejected:           {},
	StatusRejectedByShipper:  {},
}

var demoEdges = map[Status][]Status{
	StatusRequested:          {StatusApproved, StatusRejected},
	StatusApproved:           {StatusConfirmedByShipper},
	StatusConfirmedByShipper: {StatusShipmentCompleted, StatusRejectedByShipper},
	StatusShipmentCompleted:  {StatusDemoCompleted},
	StatusRejected:           {},
	StatusRejectedByShipper:  {},
	StatusDemoCompleted:      {},
}

// EdgesFrom returns the statuses structurally reachable from the given one.
func EdgesFrom(kind Kind, from Status) []Status {
	table := orderEdges
	if kind == KindDemo {
		table = demoEdges
	}
	return append([]Status{}, table[from]...)
}

// CanTransition reports whether from -> to is an edge of the lifecycle graph.
func CanTransition(kind Kind, from, to Status) bool {
	for _, next := range EdgesFrom(kind, from) {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing edges.
func IsTerminal(kind Kind, s Status) bool {
	return len(EdgesFrom(kind, s)) == 0
}
