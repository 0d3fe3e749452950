// Package config loads runtime settings from defaults, an optional config
// file, a .env file and DPM_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/meenmo/dpm/calendar/holidays"
	"github.com/meenmo/dpm/internal/logging"
	"github.com/meenmo/dpm/solver"
)

// EnvPrefix prefixes every environment override, e.g. DPM_MARKETDATA_ROOT.
const EnvPrefix = "DPM"

// Config holds every runtime setting.
type Config struct {
	Log        logging.Config `mapstructure:"log"`
	MarketData MarketData     `mapstructure:"marketdata"`
	Holidays   Holidays       `mapstructure:"holidays"`
	Solver     Solver         `mapstructure:"solver"`
}

// MarketData selects the curve source. A non-empty DSN selects PostgreSQL.
type MarketData struct {
	Root       string  `mapstructure:"root"`
	DSN        string  `mapstructure:"dsn"`
	TenorBasis float64 `mapstructure:"tenor_basis"`
}

// Holidays configures the calendar cache and the API used to fill it.
type Holidays struct {
	Dir     string        `mapstructure:"dir"`
	Fetch   bool          `mapstructure:"fetch"`
	BaseURL string        `mapstructure:"base_url"`
	Years   string        `mapstructure:"years"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Solver holds the Newton-Raphson knobs. SpreadTolerance is relative to
// the nominal.
type Solver struct {
	Tolerance       float64 `mapstructure:"tolerance"`
	MaxIterations   int     `mapstructure:"max_iterations"`
	Step            float64 `mapstructure:"step"`
	SpreadTolerance float64 `mapstructure:"spread_tolerance"`
}

// Options converts the settings for the solver package.
func (s Solver) Options() solver.Options {
	return solver.Options{Step: s.Step, Tolerance: s.Tolerance, MaxIterations: s.MaxIterations}
}

func setDefaults(v *viper.Viper) {
	log := logging.DefaultConfig()
	v.SetDefault("log.level", log.Level)
	v.SetDefault("log.format", log.Format)
	v.SetDefault("log.output", log.Output)
	v.SetDefault("log.development", log.Development)

	v.SetDefault("marketdata.root", "testdata")
	v.SetDefault("marketdata.dsn", "")
	v.SetDefault("marketdata.tenor_basis", 365.0)

	v.SetDefault("holidays.dir", "testdata/holidays")
	v.SetDefault("holidays.fetch", false)
	v.SetDefault("holidays.base_url", holidays.DefaultBaseURL)
	v.SetDefault("holidays.years", "1990-2045")
	v.SetDefault("holidays.timeout", "30s")

	opts := solver.DefaultOptions()
	v.SetDefault("solver.tolerance", opts.Tolerance)
	v.SetDefault("solver.max_iterations", opts.MaxIterations)
	v.SetDefault("solver.step", opts.Step)
	v.SetDefault("solver.spread_tolerance", 1e-10)
}

// Default returns the built-in settings.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load merges defaults, the optional file at path (YAML, JSON or TOML by
// extension), .env and the environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the loaders cannot.
func (c Config) Validate() error {
	if c.MarketData.TenorBasis <= 0 {
		return fmt.Errorf("config: marketdata.tenor_basis must be positive, got %g", c.MarketData.TenorBasis)
	}
	if _, err := holidays.YearRange(c.Holidays.Years); err != nil {
		return fmt.Errorf("config: holidays.years: %w", err)
	}
	if c.Solver.MaxIterations <= 0 {
		return fmt.Errorf("config: solver.max_iterations must be positive, got %d", c.Solver.MaxIterations)
	}
	return nil
}

// HolidayYears expands Holidays.Years.
func (c Config) HolidayYears() []int {
	years, _ := holidays.YearRange(c.Holidays.Years)
	return years
}
