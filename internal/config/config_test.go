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
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
jwt:
  secret: short
  expire_hours: 2
storage:
  type: minio
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Selection.Size)
	assert.Equal(t, 24*time.Hour, cfg.Selection.SessionTTL())
	assert.Equal(t, 1024, cfg.AI.Assistant.MaxTokens)
	assert.Equal(t, "gpt-3.5-turbo", cfg.AI.Explain.Model)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, "logs/app.log", cfg.Log.File)
}

func TestRedisAddr(t *testing.T) {
	assert.Equal(t, "redis:6380", RedisConfig{Host: "redis", Port: 6380}.Addr())
}

func TestLoadConfigRejectsWeakSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: short
storage:
  type: minio
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret is too short")
}

func TestValidateDatabaseDriver(t *testing.T) {
	cfg := &Config{
		Database:  DatabaseConfig{Driver: "sqlserver"},
		Selection: SelectionConfig{Size: 10, SessionTTLHours: 1},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	assert.NoError(t, cfg.Validate())
}

func TestServerLocation(t *testing.T) {
	assert.Equal(t, time.Local, ServerConfig{}.Location())
	assert.Equal(t, time.Local, ServerConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, "UTC", ServerConfig{Timezone: "UTC"}.Location().String())
}
