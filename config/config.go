package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"dupfinder/dedupe"
	"dupfinder/fingerprint"
	"dupfinder/signalhandler"
	"dupfinder/utils"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	GridEdge   int     `mapstructure:"gridEdge"`
	Threshold  float64 `mapstructure:"threshold"`
	MaxWorkers int     `mapstructure:"maxWorkers"`
	Database   string  `mapstructure:"database"`
	LogFile    string  `mapstructure:"logFile"`
	Debug      bool    `mapstructure:"debug"`
}

// LoadConfig reads configuration from file or environment variables.
// Missing config files are not an error; defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dupfinder")
		v.SetConfigName("dupfinder")
		v.SetConfigType("yaml")
	}

	v.SetDefault("gridEdge", fingerprint.DefaultGridEdge)
	v.SetDefault("threshold", dedupe.DefaultThreshold)
	v.SetDefault("maxWorkers", signalhandler.GetOptimalProcs())
	v.SetDefault("database", utils.GetDefaultDatabasePath())
	v.SetDefault("logFile", "dupfinder.log")
	v.SetDefault("debug", false)

	v.SetEnvPrefix("dupfinder")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if cfg.GridEdge < 2 {
		return nil, fmt.Errorf("gridEdge must be at least 2, got %d", cfg.GridEdge)
	}
	if cfg.Threshold < 0 || cfg.Threshold > 100 {
		return nil, fmt.Errorf("threshold must be in [0, 100], got %g", cfg.Threshold)
	}
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}

	return &cfg, nil
}
