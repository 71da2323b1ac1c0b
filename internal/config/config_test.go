package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"APP_SERVICE", "HTTP_ADDR", "APP_TIMEZONE", "DATABASE_TYPE", "OTEL_ENABLED", "SNOWFLAKE_NODE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "milkledger", cfg.AppName)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, int64(1), cfg.SnowflakeNode)
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadOverrides(t *testing.T) {
	if _, err := time.LoadLocation("Asia/Kolkata"); err != nil {
		t.Skip("tzdata unavailable")
	}
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_TYPE", "SQLite")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.5")
	t.Setenv("SNOWFLAKE_NODE", "not-a-number")
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, 0.5, cfg.OtelSamplingRatio)
	assert.Equal(t, int64(1), cfg.SnowflakeNode)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Config{TimeZone: "Mars/Olympus"}
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestReportConfigDefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	holder, err := NewReportConfigHolder()
	require.NoError(t, err)
	assert.Equal(t, DefaultReportConfig(), holder.Get())
}

func TestReportConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := []byte("report:\n  defaultRangeDays: 30\n  title: Monthly Statement\n  quantityDecimals: 2\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reports.yml"), content, 0o644))

	holder, err := NewReportConfigHolder()
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, 30, cfg.DefaultRangeDays)
	assert.Equal(t, "Monthly Statement", cfg.Title)
	assert.Equal(t, 2, cfg.QuantityDecimals)
}

func TestReportConfigRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := []byte("report:\n  defaultRangeDays: -1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reports.yml"), content, 0o644))

	_, err := NewReportConfigHolder()
	assert.Error(t, err)
}

func TestNilHolderReturnsDefaults(t *testing.T) {
	var holder *ReportConfigHolder
	assert.Equal(t, DefaultReportConfig(), holder.Get())
}
