package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kars-hq/kars/pkg/workflow"
)

var transitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kars_workflow_transitions_total",
		Help: "Accepted status transitions by record kind and target status.",
	},
	[]string{"kind", "to"},
)

var inventoryEffectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kars_inventory_effects_total",
		Help: "Stock side effects applied by the workflow.",
	},
	[]string{"kind", "effect"},
)

// ObserveTransition records a committed transition.
func ObserveTransition(outcome workflow.Outcome) {
	transitionsTotal.WithLabelValues(string(outcome.Kind), string(outcome.To)).Inc()
	if outcome.Effect != workflow.EffectNone {
		inventoryEffectsTotal.WithLabelValues(string(outcome.Kind), string(outcome.Effect)).Inc()
	}
}
