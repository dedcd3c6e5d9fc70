/*
Package config loads process configuration for the roster service.

SOURCES (later wins):
  1. Built-in defaults
  2. ROSTER_DEFAULTS_FILE (YAML, roster defaults only)
  3. ROSTER_* environment variables
  4. Command-line flags (applied by cmd/server)

ENVIRONMENT:
  ROSTER_ENV                         development | production (default: development)
  ROSTER_HTTP_PORT                   HTTP port (default: 8080)
  ROSTER_DB_PATH                     SQLite file, ":memory:" or ":mem:" (default: roster.db)
  ROSTER_SCHEDULER_ENABLED           Pre-generate next month's roster (default: false)
  ROSTER_SCHEDULER_INTERVAL_MINUTES  Scheduler tick (default: 60)
  ROSTER_CORS_ORIGINS                Comma separated list (default: localhost dev servers)
  ROSTER_DEFAULTS_FILE               Optional YAML file with roster defaults

DEFAULTS FILE:
  shifts_per_day: 2
  opening_hour: 7
  hours_per_shift: 8
  employees_per_shift: 2
  weekly_hour_threshold: 40
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/roster"
	"gopkg.in/yaml.v3"
)

// MemoryDB selects the in-memory store instead of SQLite.
const MemoryDB = ":mem:"

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment       string
	HTTPPort          int
	DBPath            string
	SchedulerEnabled  bool
	SchedulerInterval time.Duration
	CORSOrigins       []string
	DefaultsFile      string
	Defaults          RosterDefaults
}

// RosterDefaults fill in whatever a generation request leaves out.
type RosterDefaults struct {
	ShiftsPerDay        int     `yaml:"shifts_per_day"`
	OpeningHour         int     `yaml:"opening_hour"`
	HoursPerShift       int     `yaml:"hours_per_shift"`
	EmployeesPerShift   int     `yaml:"employees_per_shift"`
	WeeklyHourThreshold float64 `yaml:"weekly_hour_threshold"`
}

// DefaultRosterDefaults: two 8h shifts from 07:00, two people each, 40h weeks.
func DefaultRosterDefaults() RosterDefaults {
	return RosterDefaults{
		ShiftsPerDay:        2,
		OpeningHour:         7,
		HoursPerShift:       8,
		EmployeesPerShift:   2,
		WeeklyHourThreshold: roster.DefaultWeeklyHourThreshold,
	}
}

// Threshold returns the weekly threshold as a decimal.
func (d RosterDefaults) Threshold() decimal.Decimal {
	return decimal.NewFromFloat(d.WeeklyHourThreshold)
}

// RosterConfig builds an engine config for the given month.
func (d RosterDefaults) RosterConfig(year, monthIndex int) roster.Config {
	threshold := d.Threshold()
	return roster.Config{
		Year:                year,
		MonthIndex:          monthIndex,
		ShiftsPerDay:        d.ShiftsPerDay,
		OpeningHour:         d.OpeningHour,
		HoursPerShift:       d.HoursPerShift,
		EmployeesPerShift:   d.EmployeesPerShift,
		WeeklyHourThreshold: &threshold,
	}
}

// Validate rejects defaults the engine would refuse anyway, so a bad file
// fails at startup instead of on the first request.
func (d RosterDefaults) Validate() error {
	var errs []error
	if d.ShiftsPerDay < 1 {
		errs = append(errs, fmt.Errorf("shifts_per_day must be at least 1, got %d", d.ShiftsPerDay))
	}
	if d.OpeningHour < 0 || d.OpeningHour > 23 {
		errs = append(errs, fmt.Errorf("opening_hour must be within 0..23, got %d", d.OpeningHour))
	}
	if d.HoursPerShift < 0 {
		errs = append(errs, fmt.Errorf("hours_per_shift must not be negative, got %d", d.HoursPerShift))
	}
	if d.EmployeesPerShift < 1 {
		errs = append(errs, fmt.Errorf("employees_per_shift must be at least 1, got %d", d.EmployeesPerShift))
	}
	if d.WeeklyHourThreshold < 0 {
		errs = append(errs, fmt.Errorf("weekly_hour_threshold must not be negative, got %v", d.WeeklyHourThreshold))
	}
	if d.ShiftsPerDay >= 1 && d.HoursPerShift*d.ShiftsPerDay > 24 {
		errs = append(errs, fmt.Errorf("%d shifts of %dh do not fit in a day", d.ShiftsPerDay, d.HoursPerShift))
	}
	return errors.Join(errs...)
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:       getEnv("ROSTER_ENV", "development"),
		HTTPPort:          getEnvInt("ROSTER_HTTP_PORT", 8080),
		DBPath:            getEnv("ROSTER_DB_PATH", "roster.db"),
		SchedulerEnabled:  getEnvBool("ROSTER_SCHEDULER_ENABLED", false),
		SchedulerInterval: time.Duration(getEnvInt("ROSTER_SCHEDULER_INTERVAL_MINUTES", 60)) * time.Minute,
		CORSOrigins:       getEnvList("ROSTER_CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		DefaultsFile:      getEnv("ROSTER_DEFAULTS_FILE", ""),
		Defaults:          DefaultRosterDefaults(),
	}

	if cfg.DefaultsFile != "" {
		defaults, err := LoadDefaultsFile(cfg.DefaultsFile)
		if err != nil {
			return nil, err
		}
		cfg.Defaults = defaults
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("ROSTER_HTTP_PORT must be within 1..65535, got %d", c.HTTPPort)
	}
	if c.DBPath == "" {
		return fmt.Errorf("ROSTER_DB_PATH must not be empty")
	}
	if c.SchedulerInterval <= 0 {
		return fmt.Errorf("ROSTER_SCHEDULER_INTERVAL_MINUTES must be positive")
	}
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("invalid roster defaults: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// UsesMemoryStore reports whether DBPath selects the in-memory store.
func (c *Config) UsesMemoryStore() bool {
	return c.DBPath == MemoryDB
}

// LoadDefaultsFile reads roster defaults from YAML. Keys missing from the
// file keep their built-in values.
func LoadDefaultsFile(path string) (RosterDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RosterDefaults{}, fmt.Errorf("failed to read defaults file: %w", err)
	}

	defaults := DefaultRosterDefaults()
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return RosterDefaults{}, fmt.Errorf("failed to parse defaults file %s: %w", path, err)
	}
	return defaults, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "true" || v == "1" || v == "yes" {
			return true
		}
		if v == "false" || v == "0" || v == "no" {
			return false
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
