package prediction

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	secondsPerDay  = 24 * 60 * 60
	secondsPerWeek = 7 * secondsPerDay
)

// SeasonalConfig holds the seasonal regression settings.
type SeasonalConfig struct {
	DailyOrder  int     `json:"daily_order"`
	WeeklyOrder int     `json:"weekly_order"`
	Ridge       float64 `json:"ridge"`
}

// SetDefaults applies the orders used by common additive forecasters.
func (c *SeasonalConfig) SetDefaults() {
	if c.DailyOrder <= 0 {
		c.DailyOrder = 4
	}
	if c.WeeklyOrder <= 0 {
		c.WeeklyOrder = 3
	}
	if c.Ridge <= 0 {
		c.Ridge = 1e-3
	}
}

// SeasonalRegression fits an intercept, daily and weekly Fourier series and a
// linear coefficient per regressor by ridge-regularised least squares. The
// ridge term keeps constant regressor columns identifiable.
type SeasonalRegression struct {
	Config SeasonalConfig
}

// NewSeasonalRegression returns a forecaster with default settings.
func NewSeasonalRegression() *SeasonalRegression {
	var c SeasonalConfig
	c.SetDefaults()
	return &SeasonalRegression{Config: c}
}

type seasonalModel struct {
	cfg  SeasonalConfig
	nReg int
	coef []float64
}

// Fit implements Forecaster.
func (s *SeasonalRegression) Fit(ctx context.Context, rows []Row) (Model, error) {
	if len(rows) == 0 {
		return nil, ErrNoHistory
	}
	cfg := s.Config
	cfg.SetDefaults()
	nReg := len(rows[0].Regressors)
	p := designWidth(cfg, nReg)

	x := mat.NewDense(len(rows), p, nil)
	y := mat.NewVecDense(len(rows), nil)
	for i, r := range rows {
		if len(r.Regressors) != nReg {
			return nil, fmt.Errorf("%w: row %d has %d regressors, want %d", ErrDimension, i, len(r.Regressors), nReg)
		}
		x.SetRow(i, designRow(cfg, r))
		y.SetVec(i, r.Target)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())
	// the intercept is left unpenalised
	for j := 1; j < p; j++ {
		xtx.SetSym(j, j, xtx.At(j, j)+cfg.Ridge*float64(len(rows)))
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, fmt.Errorf("seasonal fit: normal matrix not positive definite")
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, fmt.Errorf("seasonal fit: %w", err)
	}
	coef := make([]float64, p)
	for j := range coef {
		coef[j] = beta.AtVec(j)
	}
	return &seasonalModel{cfg: cfg, nReg: nReg, coef: coef}, nil
}

// Predict implements Model.
func (m *seasonalModel) Predict(rows []Row) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, r := range rows {
		if len(r.Regressors) != m.nReg {
			return nil, fmt.Errorf("%w: row %d has %d regressors, want %d", ErrDimension, i, len(r.Regressors), m.nReg)
		}
		out[i] = floats.Dot(m.coef, designRow(m.cfg, r))
	}
	return out, nil
}

func designWidth(cfg SeasonalConfig, nReg int) int {
	return 1 + 2*cfg.DailyOrder + 2*cfg.WeeklyOrder + nReg
}

// designRow lays out [1, daily sin/cos..., weekly sin/cos..., regressors...].
// Phases use the wall clock of the row's zone so seasonality follows local
// time across offset changes.
func designRow(cfg SeasonalConfig, r Row) []float64 {
	row := make([]float64, 0, designWidth(cfg, len(r.Regressors)))
	row = append(row, 1)
	h, mi, sec := r.Time.Clock()
	secOfDay := float64(h*3600 + mi*60 + sec)
	// Monday is day zero of the weekly cycle.
	dow := (int(r.Time.Weekday()) + 6) % 7
	daily := secOfDay / secondsPerDay
	weekly := (float64(dow*secondsPerDay) + secOfDay) / secondsPerWeek
	row = appendFourier(row, daily, cfg.DailyOrder)
	row = appendFourier(row, weekly, cfg.WeeklyOrder)
	return append(row, r.Regressors...)
}

func appendFourier(dst []float64, phase float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		a := 2 * math.Pi * float64(k) * phase
		dst = append(dst, math.Sin(a), math.Cos(a))
	}
	return dst
}

// interface guards
var (
	_ Forecaster = (*SeasonalRegression)(nil)
	_ Model      = (*seasonalModel)(nil)
)
