package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, "_restaurants_session", c.Session.CookieName)
	assert.Equal(t, "dev-only-secret", c.JWT.Secret)
	assert.EqualValues(t, 300, c.Limits.Concurrency)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	p := writeYAML(t, `
app:
  env: prod
  http:
    port: 9000
jwt:
  secret: from-file
db:
  driver: postgres
  dsn: postgres://app@db/app
redis:
  addr: 127.0.0.1:6379
limits:
  perIPRps: 5
`)
	t.Setenv("APP_DB_DSN", "postgres://env@db/app")

	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 9000, c.App.HTTP.Port)
	assert.Equal(t, "from-file", c.JWT.Secret)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "postgres://env@db/app", c.DB.DSN)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	assert.InDelta(t, 5.0, c.Limits.PerIPRPS, 0.001)
}

func TestLoad_SecretRequiredOutsideLocal(t *testing.T) {
	p := writeYAML(t, "app:\n  env: prod\n")
	_, err := Load(p)
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	p := writeYAML(t, "app: [\n")
	_, err := Load(p)
	assert.Error(t, err)
}
