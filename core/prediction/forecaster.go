package prediction

import (
	"context"
	"errors"
	"time"
)

// Row is one training or prediction sample.
type Row struct {
	Time       time.Time
	Regressors []float64
	// Target is ignored by Predict.
	Target float64
}

// Forecaster fits a model on history rows.
type Forecaster interface {
	Fit(ctx context.Context, rows []Row) (Model, error)
}

// Model predicts one value per row.
type Model interface {
	Predict(rows []Row) ([]float64, error)
}

var (
	// ErrNoHistory is returned when Fit receives no rows.
	ErrNoHistory = errors.New("no history rows")
	// ErrDimension is returned when rows disagree on the regressor count.
	ErrDimension = errors.New("regressor dimension mismatch")
)
