package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// TaxConfig controls the default tax rate applied to new invoice drafts.
// The rate is a percentage in [0, 100]; callers clamp user input to the
// same range before totals are computed.
type TaxConfig struct {
	DefaultRatePercent float64 `mapstructure:"defaultRatePercent"`
}

func DefaultTaxConfig() TaxConfig {
	return TaxConfig{DefaultRatePercent: 15}
}

// TaxConfigHolder serves the current tax configuration and hot-reloads
// hisab.yml when it changes on disk.
type TaxConfigHolder struct {
	current atomic.Value // holds TaxConfig
}

func NewTaxConfigHolder() (*TaxConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("hisab")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/hisab/config")
	v.AddConfigPath("/etc/hisab")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HISAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultTaxConfig()
		v.SetDefault("tax.defaultRatePercent", defaults.DefaultRatePercent)
	}

	var cfg TaxConfig
	if err := v.UnmarshalKey("tax", &cfg); err != nil {
		return nil, err
	}
	if err := validateTaxConfig(cfg); err != nil {
		return nil, err
	}

	holder := &TaxConfigHolder{}
	holder.current.Store(cfg)

	v.OnConfigChange(func(_ fsnotify.Event) {
		var next TaxConfig
		if err := v.UnmarshalKey("tax", &next); err != nil {
			log.Printf("tax config reload failed: %v", err)
			return
		}
		if err := validateTaxConfig(next); err != nil {
			log.Printf("tax config reload rejected: %v", err)
			return
		}
		holder.current.Store(next)
	})
	v.WatchConfig()

	return holder, nil
}

// Current returns the active tax configuration.
func (h *TaxConfigHolder) Current() TaxConfig {
	if value, ok := h.current.Load().(TaxConfig); ok {
		return value
	}
	return DefaultTaxConfig()
}

// DefaultRate returns the configured default rate as a decimal percentage.
func (h *TaxConfigHolder) DefaultRate() decimal.Decimal {
	return decimal.NewFromFloat(h.Current().DefaultRatePercent)
}

func validateTaxConfig(cfg TaxConfig) error {
	if cfg.DefaultRatePercent < 0 || cfg.DefaultRatePercent > 100 {
		return errors.New("tax defaultRatePercent must be within [0, 100]")
	}
	return nil
}
