// Package metrics exposes Prometheus collectors for the ledger engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_commands_total",
			Help: "Total number of ledger commands processed labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_command_duration_seconds",
			Help:    "Duration of ledger commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	settlementsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_settlements_completed_total",
			Help: "Total number of balances settled by both parties",
		},
	)
	notificationsDeliveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_notifications_delivered_total",
			Help: "Total number of overdue notifications marked shown",
		},
	)
	overdueBalances = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_overdue_balances",
			Help: "Current number of unsettled balances past their due date",
		},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	ledgerCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordSettlementCompleted counts a fully settled balance.
func RecordSettlementCompleted() {
	settlementsCompletedTotal.Inc()
}

// RecordNotificationsDelivered counts delivered notifications.
func RecordNotificationsDelivered(n int) {
	notificationsDeliveredTotal.Add(float64(n))
}

// SetOverdueBalances updates the overdue balance gauge.
func SetOverdueBalances(n int) {
	overdueBalances.Set(float64(n))
}
