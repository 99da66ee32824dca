package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	inspectionPlanner = "inspection_planner"

	schedulingOperationsTotal = "scheduling_operations_total"
	capacityRejectionsTotal   = "capacity_rejections_total"
	lockWaitSeconds           = "person_date_lock_wait_seconds"

	// Labels
	operationLabel = "operation"
	outcomeLabel   = "outcome"
	roleLabel      = "role"
)

var schedulingOperationsMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: inspectionPlanner,
		Name:      schedulingOperationsTotal,
		Help:      "number of scheduling operations partitioned by operation and outcome",
	},
	[]string{operationLabel, outcomeLabel},
)

var capacityRejectionsMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: inspectionPlanner,
		Name:      capacityRejectionsTotal,
		Help:      "number of assignments rejected because a person reached the daily capacity",
	},
	[]string{roleLabel},
)

var lockWaitMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: inspectionPlanner,
		Name:      lockWaitSeconds,
		Help:      "time spent waiting for person/date locks",
		Buckets:   []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 5},
	},
)

// ObserveOperation records the outcome of a scheduling operation, e.g.
// ("schedule", "success") or ("reassign", "capacity_exceeded").
func ObserveOperation(operation, outcome string) {
	schedulingOperationsMetric.With(prometheus.Labels{
		operationLabel: operation,
		outcomeLabel:   outcome,
	}).Inc()
}

func IncreaseCapacityRejections(role string) {
	capacityRejectionsMetric.With(prometheus.Labels{roleLabel: role}).Inc()
}

func ObserveLockWait(seconds float64) {
	lockWaitMetric.Observe(seconds)
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(schedulingOperationsMetric)
	prometheus.MustRegister(capacityRejectionsMetric)
	prometheus.MustRegister(lockWaitMetric)
}
