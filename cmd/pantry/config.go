package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"pantry"
)

const (
	configFileName = "pantry"
	configFileType = "yaml"
	envPrefix      = "PANTRY"

	cfgKeyPolicy   = "policy"
	cfgKeyLowStock = "low_stock"
	cfgKeyExpDays  = "exp_days"
	cfgKeyAddr     = "addr"
	cfgKeyUnits    = "units"

	defaultAddr = "127.0.0.1:7420"
)

// unitConfig declares an extra unit in the config file:
//
//	units:
//	  - name: dozen
//	    category: count
//	    factor: 12
type unitConfig struct {
	Name     string  `mapstructure:"name"`
	Category string  `mapstructure:"category"`
	Factor   float64 `mapstructure:"factor"`
}

// loadConfig reads the config file with Viper. An explicit path must exist;
// a missing default config file is not an error.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyPolicy, pantry.PolicyLenient.String())
	v.SetDefault(cfgKeyLowStock, pantry.DefaultLowStock)
	v.SetDefault(cfgKeyExpDays, pantry.DefaultExpDays)
	v.SetDefault(cfgKeyAddr, defaultAddr)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".pantry"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// newConverter builds the converter described by v. strict overrides the
// configured policy.
func newConverter(v *viper.Viper, strict bool, logger *zap.Logger) (*pantry.Converter, error) {
	policy, err := pantry.ParsePolicy(v.GetString(cfgKeyPolicy))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgKeyPolicy, err)
	}
	if strict {
		policy = pantry.PolicyStrict
	}

	var units []unitConfig
	if err := v.UnmarshalKey(cfgKeyUnits, &units); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgKeyUnits, err)
	}

	opts := []pantry.Option{pantry.WithPolicy(policy), pantry.WithLogger(logger)}
	for _, u := range units {
		cat, ok := pantry.ParseCategory(u.Category)
		if !ok {
			return nil, fmt.Errorf("config %s: unit %q: unknown category %q", cfgKeyUnits, u.Name, u.Category)
		}
		if u.Name == "" || u.Factor <= 0 {
			return nil, fmt.Errorf("config %s: unit %q needs a name and a positive factor", cfgKeyUnits, u.Name)
		}
		opts = append(opts, pantry.WithUnit(u.Name, cat, u.Factor))
	}
	return pantry.NewConverter(opts...), nil
}

func recommendSettings(v *viper.Viper) pantry.RecommendSettings {
	return pantry.RecommendSettings{
		LowStock: v.GetFloat64(cfgKeyLowStock),
		ExpDays:  v.GetInt(cfgKeyExpDays),
	}
}
