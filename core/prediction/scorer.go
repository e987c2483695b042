package prediction

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/weekplan/core/features"
	"github.com/kilianp07/weekplan/core/model"
)

// ScoreSlots fits fc on the synthetic history and returns a copy of slots
// with Utility set to the clipped forecast.
func ScoreSlots(ctx context.Context, fc Forecaster, eng *features.Engine, history []time.Time, slots []model.Slot) ([]model.Slot, error) {
	m, err := fc.Fit(ctx, HistoryRows(eng, history))
	if err != nil {
		return nil, fmt.Errorf("fit forecaster: %w", err)
	}
	ts := make([]time.Time, len(slots))
	for i, s := range slots {
		ts[i] = s.Start
	}
	pred, err := m.Predict(FutureRows(eng, ts))
	if err != nil {
		return nil, fmt.Errorf("predict utility: %w", err)
	}
	if len(pred) != len(slots) {
		return nil, fmt.Errorf("%w: %d predictions for %d slots", ErrDimension, len(pred), len(slots))
	}
	out := make([]model.Slot, len(slots))
	copy(out, slots)
	for i := range out {
		v := pred[i]
		if math.IsNaN(v) {
			v = forecastFloor
		}
		out[i].Utility = clamp(v, forecastFloor, forecastCeil)
	}
	return out, nil
}
