package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/weekplan/core/model"
)

func TestPromRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorderWithRegistry(reg)
	require.NoError(t, err)

	rec.RecordRun(model.Response{
		Unscheduled: []string{"a", "b"},
		Stats:       model.SolveStats{Status: model.StatusOptimal, Objective: 4.2, Elapsed: 20 * time.Millisecond},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.unscheduled))

	rec.RecordRun(model.Response{Stats: model.SolveStats{Status: model.StatusFeasible, Objective: 1}})

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.runs.WithLabelValues("optimal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.runs.WithLabelValues("feasible")))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.unscheduled))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.objective))
	assert.Equal(t, 2, testutil.CollectAndCount(rec.duration))
}

func TestPromRecorderReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromRecorderWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewPromRecorderWithRegistry(reg)
	require.NoError(t, err)

	first.RecordRun(model.Response{Stats: model.SolveStats{Status: model.StatusEmpty}})
	second.RecordRun(model.Response{Stats: model.SolveStats{Status: model.StatusEmpty}})
	assert.Equal(t, 2.0, testutil.ToFloat64(second.runs.WithLabelValues("empty")))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorderWithRegistry(reg)
	require.NoError(t, err)
	rec.RecordRun(model.Response{Stats: model.SolveStats{Status: model.StatusOptimal, Objective: 3}})

	path := filepath.Join(t.TempDir(), "weekplan.prom")
	require.NoError(t, WriteTextfile(path, reg))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, `weekplan_runs_total{status="optimal"} 1`)
	assert.Contains(t, out, "weekplan_last_run_objective 3")
}
