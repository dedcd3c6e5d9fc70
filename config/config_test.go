package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ROSTER_ENV", "ROSTER_HTTP_PORT", "ROSTER_DB_PATH", "ROSTER_SCHEDULER_ENABLED",
		"ROSTER_SCHEDULER_INTERVAL_MINUTES", "ROSTER_CORS_ORIGINS", "ROSTER_DEFAULTS_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "roster.db", cfg.DBPath)
	assert.False(t, cfg.SchedulerEnabled)
	assert.Equal(t, time.Hour, cfg.SchedulerInterval)
	assert.Equal(t, config.DefaultRosterDefaults(), cfg.Defaults)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ROSTER_ENV", "production")
	t.Setenv("ROSTER_HTTP_PORT", "9090")
	t.Setenv("ROSTER_DB_PATH", ":mem:")
	t.Setenv("ROSTER_SCHEDULER_ENABLED", "yes")
	t.Setenv("ROSTER_SCHEDULER_INTERVAL_MINUTES", "5")
	t.Setenv("ROSTER_CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ROSTER_DEFAULTS_FILE", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.True(t, cfg.UsesMemoryStore())
	assert.True(t, cfg.SchedulerEnabled)
	assert.Equal(t, 5*time.Minute, cfg.SchedulerInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_RejectsBadPort(t *testing.T) {
	t.Setenv("ROSTER_HTTP_PORT", "70000")
	t.Setenv("ROSTER_DEFAULTS_FILE", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "ROSTER_HTTP_PORT")
}

func TestLoadDefaultsFile_PartialOverride(t *testing.T) {
	// GIVEN: A file that only changes shifts and the threshold
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shifts_per_day: 3\nweekly_hour_threshold: 37.5\n"), 0o644))

	// WHEN: Loading it
	defaults, err := config.LoadDefaultsFile(path)
	require.NoError(t, err)

	// THEN: The rest keep their built-in values
	assert.Equal(t, 3, defaults.ShiftsPerDay)
	assert.Equal(t, 7, defaults.OpeningHour)
	assert.Equal(t, 8, defaults.HoursPerShift)
	assert.Equal(t, "37.5", defaults.Threshold().String())
	assert.NoError(t, defaults.Validate())
}

func TestLoad_InvalidDefaultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shifts_per_day: 3\nhours_per_shift: 10\n"), 0o644))
	t.Setenv("ROSTER_DEFAULTS_FILE", path)
	t.Setenv("ROSTER_HTTP_PORT", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "do not fit in a day")
}

func TestLoadDefaultsFile_Errors(t *testing.T) {
	_, err := config.LoadDefaultsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shifts_per_day: [oops\n"), 0o644))
	_, err = config.LoadDefaultsFile(path)
	assert.Error(t, err)
}

func TestRosterDefaults_RosterConfig(t *testing.T) {
	cfg := config.DefaultRosterDefaults().RosterConfig(2025, 10)

	assert.Equal(t, 2025, cfg.Year)
	assert.Equal(t, 10, cfg.MonthIndex)
	assert.Equal(t, 2, cfg.EmployeesPerShift)
	require.NotNil(t, cfg.WeeklyHourThreshold)
	assert.Equal(t, "40", cfg.WeeklyHourThreshold.String())
}
