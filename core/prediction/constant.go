package prediction

import "context"

// ConstantForecaster ignores history and predicts a configured value per hour
// of day, or Value for hours without an entry. It keeps tests and dry runs
// deterministic.
type ConstantForecaster struct {
	Value  float64         `json:"value"`
	ByHour map[int]float64 `json:"by_hour"`
}

// Fit implements Forecaster.
func (c ConstantForecaster) Fit(ctx context.Context, rows []Row) (Model, error) {
	_ = rows
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	byHour := make(map[int]float64, len(c.ByHour))
	for h, v := range c.ByHour {
		byHour[h] = v
	}
	return constantModel{value: c.Value, byHour: byHour}, nil
}

type constantModel struct {
	value  float64
	byHour map[int]float64
}

// Predict implements Model.
func (m constantModel) Predict(rows []Row) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, r := range rows {
		if v, ok := m.byHour[r.Time.Hour()]; ok {
			out[i] = v
			continue
		}
		out[i] = m.value
	}
	return out, nil
}
