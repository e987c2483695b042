// Package prediction forecasts the base utility of every slot of the target
// week. A Forecaster is fitted on timestamped regressor rows and returns a
// Model that predicts one value per row. The default implementation is an
// additive regression with daily and weekly Fourier terms solved with gonum.
// Synthetic prior history bootstraps the fit when no real usage exists.
package prediction
