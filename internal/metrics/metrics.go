// ABOUTME: Prometheus metrics for admin actions and confirmation pages.
// ABOUTME: Package-level collectors registered with the default registry.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActionsInvoked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_actions_invoked_total",
		Help: "Total number of admin action invocations, labelled by model, action, and outcome.",
	}, []string{"model", "action", "outcome"})

	ActionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admin_action_duration_ms",
		Help:    "Admin action latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"model", "action"})

	ConfirmationsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_confirmations_total",
		Help: "Confirmation page outcomes, labelled by model, action, and state (shown, invalid, applied).",
	}, []string{"model", "action", "state"})

	ActionsHidden = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_actions_hidden_total",
		Help: "Buttons suppressed by a visibility predicate, labelled by model and action.",
	}, []string{"model", "action"})

	RegisteredRoutes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "admin_registered_action_routes",
		Help: "Number of generated action routes.",
	})
)

// Outcome labels for ActionsInvoked.
const (
	OutcomeRedirect = "redirect"
	OutcomeResponse = "response"
	OutcomeError    = "error"
)
