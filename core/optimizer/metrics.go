package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	solveSeconds *prometheus.HistogramVec
	searchNodes  prometheus.Counter
	tasksPlaced  prometheus.Counter
	tasksDropped *prometheus.CounterVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.HistogramVec, prometheus.Counter, prometheus.Counter, *prometheus.CounterVec) {
	lat := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weekplan_placement_solve_seconds",
			Help:    "Wall-clock time spent in the placement search",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
	nodes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weekplan_placement_search_nodes_total",
			Help: "Number of search nodes explored by the placement solver",
		},
	)
	placed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weekplan_tasks_placed_total",
			Help: "Number of tasks that received an assignment",
		},
	)
	dropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weekplan_tasks_dropped_total",
			Help: "Number of tasks left without an assignment",
		},
		[]string{"reason"},
	)
	return lat, nodes, placed, dropped
}

func init() {
	solveSeconds, searchNodes, tasksPlaced, tasksDropped = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers optimizer metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(solveSeconds, searchNodes, tasksPlaced, tasksDropped)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	solveSeconds, searchNodes, tasksPlaced, tasksDropped = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
