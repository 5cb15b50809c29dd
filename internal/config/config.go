package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Solver  SolverConfig  `mapstructure:"solver"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SolverConfig holds search tunables.
type SolverConfig struct {
	StartingLife  int           `mapstructure:"starting_life"`
	TurnCap       int           `mapstructure:"turn_cap"`
	MaxDepth      int           `mapstructure:"max_depth"`
	NodeBudget    uint64        `mapstructure:"node_budget"`
	Timeout       time.Duration `mapstructure:"timeout"`
	TableCapacity int           `mapstructure:"table_capacity"`
	SnapshotPath  string        `mapstructure:"snapshot_path"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional YAML file plus environment
// variables prefixed with TCB_ (e.g. TCB_SOLVER_TURN_CAP). A missing
// file is fine; defaults cover everything.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("solver.starting_life", 20)
	v.SetDefault("solver.turn_cap", 50)
	v.SetDefault("solver.max_depth", 500)
	v.SetDefault("solver.node_budget", 0)
	v.SetDefault("solver.timeout", 0)
	v.SetDefault("solver.table_capacity", 0)
	v.SetDefault("solver.snapshot_path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetEnvPrefix("TCB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// A missing file falls back to defaults; anything else is
			// a real configuration error.
			if _, statErr := os.Stat(path); statErr == nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
