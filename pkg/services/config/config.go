// Package config loads batch settings from a config file, FLEXIMART_*
// environment variables and destination profiles.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "FLEXIMART"

var ErrInvalidConfig = errors.New("invalid config")

type Inputs struct {
	Customers string `mapstructure:"customers"`
	Products  string `mapstructure:"products"`
	Sales     string `mapstructure:"sales"`
}

type Config struct {
	Inputs      Inputs `mapstructure:"inputs"`
	Destination string `mapstructure:"destination"`
	ReportPath  string `mapstructure:"report_path"`
	MetricsPath string `mapstructure:"metrics_path"`
	LogLevel    string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("inputs.customers", "customers_raw.csv")
	v.SetDefault("inputs.products", "products_raw.csv")
	v.SetDefault("inputs.sales", "sales_raw.csv")
	v.SetDefault("destination", "")
	v.SetDefault("report_path", "data_quality_report.txt")
	v.SetDefault("metrics_path", "")
	v.SetDefault("log_level", "info")
}

// LoadConfig reads path when given; defaults and environment apply either way.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Destination == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidConfig)
	}
	if c.Inputs.Customers == "" || c.Inputs.Products == "" || c.Inputs.Sales == "" {
		return fmt.Errorf("%w: customers, products and sales inputs are required", ErrInvalidConfig)
	}
	if c.ReportPath == "" {
		return fmt.Errorf("%w: report_path is required", ErrInvalidConfig)
	}
	return nil
}
