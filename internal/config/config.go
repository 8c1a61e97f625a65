// Package config loads the application configuration from a YAML file,
// a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/buckets-finance/buckets/internal/types"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variables read by Load.
const EnvPrefix = "BUCKETS"

// Config is the complete application configuration.
type Config struct {
	Defaults Defaults `mapstructure:"defaults"`
	Database Database `mapstructure:"database"`
	Server   Server   `mapstructure:"server"`
	CORS     CORS     `mapstructure:"cors"`
	Log      Log      `mapstructure:"log"`
}

// Defaults holds the settings that influence calculations.
type Defaults struct {
	Period         string `mapstructure:"period"`
	FirstDayOfWeek int    `mapstructure:"firstDayOfWeek"` // 0 is Monday, 6 is Sunday
	RoundDecimals  int32  `mapstructure:"roundDecimals"`
	TopCategories  int    `mapstructure:"topCategories"`
	Timezone       string `mapstructure:"timezone"`
}

// Database selects the database to connect to.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Server configures the HTTP server.
type Server struct {
	Address     string `mapstructure:"address"`
	APIURL      string `mapstructure:"apiURL"`
	EnablePprof bool   `mapstructure:"enablePprof"`
}

// CORS lists the origins allowed for cross-origin requests.
type CORS struct {
	AllowOrigins string `mapstructure:"allowOrigins"` // Space separated
}

// Log configures the format and level of the log output.
type Log struct {
	Format string `mapstructure:"format"`
	Level  string `mapstructure:"level"`
}

var (
	ErrFirstDayOfWeek = errors.New("defaults.firstDayOfWeek must be between 0 (Monday) and 6 (Sunday)")
	ErrRoundDecimals  = errors.New("defaults.roundDecimals must be between 0 and 8")
	ErrPeriod         = errors.New("defaults.period must be one of 'day', 'week', 'month' or 'year'")
	ErrTopCategories  = errors.New("defaults.topCategories must not be negative")
	ErrDSN            = errors.New("database.dsn must not be empty")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.period", string(types.Week))
	v.SetDefault("defaults.firstDayOfWeek", 6)
	v.SetDefault("defaults.roundDecimals", 2)
	v.SetDefault("defaults.topCategories", 5)
	v.SetDefault("defaults.timezone", "Local")
	v.SetDefault("database.dsn", "data/buckets.db")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.apiURL", "http://localhost:8080")
	v.SetDefault("server.enablePprof", false)
	v.SetDefault("cors.allowOrigins", "")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.level", "info")
}

// Load reads the configuration.
//
// Values are read from, in increasing order of precedence, the defaults,
// the YAML file at path, a .env file in the working directory and
// environment variables prefixed with BUCKETS_, e.g.
// BUCKETS_DEFAULTS_ROUNDDECIMALS=3. A missing file at path is not an error.
func Load(path string) (Config, error) {
	// A missing .env file is fine, the environment is used as is
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("could not read configuration file %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("could not parse configuration: %w", err)
	}

	return c, c.Validate()
}

// Validate checks that all values are in their allowed ranges.
func (c Config) Validate() error {
	var errs []error

	if c.Defaults.FirstDayOfWeek < 0 || c.Defaults.FirstDayOfWeek > 6 {
		errs = append(errs, ErrFirstDayOfWeek)
	}

	if c.Defaults.RoundDecimals < 0 || c.Defaults.RoundDecimals > 8 {
		errs = append(errs, ErrRoundDecimals)
	}

	if !types.Unit(c.Defaults.Period).Valid() {
		errs = append(errs, ErrPeriod)
	}

	if c.Defaults.TopCategories < 0 {
		errs = append(errs, ErrTopCategories)
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("defaults.timezone: %w", err))
	}

	if c.Database.DSN == "" {
		errs = append(errs, ErrDSN)
	}

	return errors.Join(errs...)
}

// Location returns the time zone periods are calculated in.
func (c Config) Location() (*time.Location, error) {
	if c.Defaults.Timezone == "" || c.Defaults.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Defaults.Timezone)
}

// DefaultUnit returns the configured default period unit.
func (c Config) DefaultUnit() types.Unit {
	return types.ParseUnit(c.Defaults.Period)
}
