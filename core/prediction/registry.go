package prediction

import "github.com/kilianp07/weekplan/core/factory"

const (
	// TypeSeasonal selects SeasonalRegression.
	TypeSeasonal = "seasonal"
	// TypeConstant selects ConstantForecaster.
	TypeConstant = "constant"
)

// NewRegistry returns a registry with the built-in forecasters. An empty
// module type selects the seasonal regression.
func NewRegistry() *factory.Registry[Forecaster] {
	reg := factory.NewRegistry[Forecaster](TypeSeasonal)
	_ = reg.Register(TypeSeasonal, func(conf map[string]any) (Forecaster, error) {
		var c SeasonalConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		c.SetDefaults()
		return &SeasonalRegression{Config: c}, nil
	})
	_ = reg.Register(TypeConstant, func(conf map[string]any) (Forecaster, error) {
		var c ConstantForecaster
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return c, nil
	})
	return reg
}
