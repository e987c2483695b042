// Package metrics records planning runs in Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/weekplan/core/model"
)

// PromRecorder implements scheduler.RunRecorder.
type PromRecorder struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	unscheduled prometheus.Gauge
	objective   prometheus.Gauge
}

// NewPromRecorder registers run metrics on the default Prometheus registerer.
func NewPromRecorder() (*PromRecorder, error) {
	return NewPromRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromRecorderWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier recorder are reused.
func NewPromRecorderWithRegistry(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weekplan_runs_total",
		Help: "Total number of planning runs",
	}, []string{"status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weekplan_run_duration_seconds",
		Help:    "End-to-end duration of a planning run",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	unscheduled := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weekplan_last_run_unscheduled_tasks",
		Help: "Number of tasks left unscheduled by the last run",
	})
	objective := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weekplan_last_run_objective",
		Help: "Priority-weighted utility achieved by the last run",
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(unscheduled); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			unscheduled = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(objective); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			objective = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	return &PromRecorder{runs: runs, duration: duration, unscheduled: unscheduled, objective: objective}, nil
}

// RecordRun updates the collectors from one response.
func (r *PromRecorder) RecordRun(res model.Response) {
	status := string(res.Stats.Status)
	r.runs.WithLabelValues(status).Inc()
	r.duration.WithLabelValues(status).Observe(res.Stats.Elapsed.Seconds())
	r.unscheduled.Set(float64(len(res.Unscheduled)))
	r.objective.Set(res.Stats.Objective)
}

// WriteTextfile dumps every metric of g in the Prometheus text format, for
// node_exporter's textfile collector. A nil gatherer uses the default one.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return prometheus.WriteToTextfile(path, g)
}
