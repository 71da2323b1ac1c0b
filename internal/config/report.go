package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ReportConfig tunes report defaults and export rendering.
type ReportConfig struct {
	DefaultRangeDays int    `mapstructure:"defaultRangeDays"`
	Title            string `mapstructure:"title"`
	QuantityDecimals int    `mapstructure:"quantityDecimals"`
}

func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		DefaultRangeDays: 7,
		Title:            "Milk Delivery Report",
		QuantityDecimals: 1,
	}
}

type ReportConfigHolder struct {
	current atomic.Value // holds ReportConfig
}

// NewStaticReportConfigHolder returns a holder that never reloads.
func NewStaticReportConfigHolder(cfg ReportConfig) *ReportConfigHolder {
	holder := &ReportConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// NewReportConfigHolder reads reports.yml and keeps it hot-reloaded.
// A missing file yields DefaultReportConfig.
func NewReportConfigHolder() (*ReportConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("reports")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/milkledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MILKLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReportConfig()
	v.SetDefault("report.defaultRangeDays", defaults.DefaultRangeDays)
	v.SetDefault("report.title", defaults.Title)
	v.SetDefault("report.quantityDecimals", defaults.QuantityDecimals)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	var cfg ReportConfig
	if err := v.UnmarshalKey("report", &cfg); err != nil {
		return nil, err
	}
	if err := validateReportConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticReportConfigHolder(cfg)
	if !found {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReportConfig
		if err := v.UnmarshalKey("report", &updated); err != nil {
			zap.L().Warn("report config reload failed", zap.Error(err))
			return
		}
		if err := validateReportConfig(updated); err != nil {
			zap.L().Warn("invalid report config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		zap.L().Info("report config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *ReportConfigHolder) Get() ReportConfig {
	if h == nil {
		return DefaultReportConfig()
	}
	cfg, ok := h.current.Load().(ReportConfig)
	if !ok {
		return DefaultReportConfig()
	}
	return cfg
}

func validateReportConfig(cfg ReportConfig) error {
	if cfg.DefaultRangeDays < 0 {
		return errors.New("report.defaultRangeDays cannot be negative")
	}
	if cfg.QuantityDecimals < 0 || cfg.QuantityDecimals > 6 {
		return errors.New("report.quantityDecimals must be between 0 and 6")
	}
	return nil
}
