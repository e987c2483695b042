// Package factory is a small generic registry used to pick pluggable
// backends, such as the utility forecaster or the placement solver, from
// configuration. A module is described by a type name and a map of raw
// settings which the registered factory decodes into its own struct.
//
//	reg := factory.NewRegistry[prediction.Forecaster]("seasonal")
//	_ = reg.Register("seasonal", func(conf map[string]any) (prediction.Forecaster, error) {
//	    var c prediction.SeasonalConfig
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return &prediction.SeasonalRegression{Config: c}, nil
//	})
//	fc, err := reg.Create(factory.ModuleConfig{})
package factory
