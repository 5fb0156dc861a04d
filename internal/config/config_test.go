package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
database:
  host: localhost
  dbname: exams
jwt:
  secret: short
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "@every 1m", cfg.Exam.SweepSchedule)
	assert.Equal(t, "exam_attempt_events", cfg.Exam.NotificationChannel)
	assert.True(t, cfg.Exam.NotificationsEnabled)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
database:
  host: localhost
jwt:
  secret: short
`)
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("EXAM_SWEEP_SCHEDULE", "@every 30s")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "@every 30s", cfg.Exam.SweepSchedule)
}

func TestLoadConfigRejectsWeakSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: too-short
`)

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "JWT secret is too short")
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: oracle
jwt:
  secret: short
`)

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "unsupported database driver")
}
