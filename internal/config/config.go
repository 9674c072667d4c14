// Package config provides Viper-based configuration loading for the
// Darklands combat simulator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig holds the tunable timing and damage parameters of the
// combat engine. All durations are in abstract time units (see clock).
type SimulationConfig struct {
	// MaxSteps bounds how many turns a single Run may resolve.
	MaxSteps int `mapstructure:"max_steps"`
	// TileTime is the duration of one orthogonal movement step; diagonal
	// steps scale by the fixed-point movement cost ratio.
	TileTime int `mapstructure:"tile_time"`
	// StrikeTime is the duration of a melee strike.
	StrikeTime int `mapstructure:"strike_time"`
	// StrikeDamage is the base damage of a melee strike.
	StrikeDamage int `mapstructure:"strike_damage"`
	// DamageJitter is the maximum extra damage drawn from the encounter's
	// deterministic rng stream; 0 disables the draw entirely.
	DamageJitter int `mapstructure:"damage_jitter"`
	// WaitTime is the duration of an idle turn.
	WaitTime int `mapstructure:"wait_time"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.MaxSteps < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_steps must be >= 1, got %d", s.MaxSteps))
	}
	if s.TileTime < 1 {
		errs = append(errs, fmt.Sprintf("simulation.tile_time must be >= 1, got %d", s.TileTime))
	}
	if s.StrikeTime < 1 {
		errs = append(errs, fmt.Sprintf("simulation.strike_time must be >= 1, got %d", s.StrikeTime))
	}
	if s.StrikeDamage < 0 {
		errs = append(errs, fmt.Sprintf("simulation.strike_damage must be >= 0, got %d", s.StrikeDamage))
	}
	if s.DamageJitter < 0 {
		errs = append(errs, fmt.Sprintf("simulation.damage_jitter must be >= 0, got %d", s.DamageJitter))
	}
	if s.WaitTime < 1 {
		errs = append(errs, fmt.Sprintf("simulation.wait_time must be >= 1, got %d", s.WaitTime))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DARKLANDS_ prefix
	v.SetEnvPrefix("DARKLANDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the built-in configuration used when no file is supplied.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Simulation: SimulationConfig{
			MaxSteps:     1000,
			TileTime:     100,
			StrikeTime:   150,
			StrikeDamage: 12,
			DamageJitter: 6,
			WaitTime:     100,
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("simulation.max_steps", 1000)
	v.SetDefault("simulation.tile_time", 100)
	v.SetDefault("simulation.strike_time", 150)
	v.SetDefault("simulation.strike_damage", 12)
	v.SetDefault("simulation.damage_jitter", 6)
	v.SetDefault("simulation.wait_time", 100)
}
