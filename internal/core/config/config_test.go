package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  env: prod
  http:
    port: 8080
jwt:
  secret: from-file
db:
  driver: sqlite
  dsn: file::memory:
redis:
  addr: 127.0.0.1:6379
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_FileAndDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.True(t, c.IsProd())
	assert.Equal(t, "from-file", c.JWT.Secret)
	assert.Equal(t, "catalog-api", c.JWT.Issuer)
	assert.Equal(t, 120, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	assert.Equal(t, "catalog.events", c.AMQP.Exchange)
	assert.Equal(t, "http://127.0.0.1:8080/api/v1", c.App.HostAPI)
	assert.False(t, c.Seed.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_DB_DRIVER", "postgres")

	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, "postgres", c.DB.Driver)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "app:\n  env: local\n"))
	assert.ErrorContains(t, err, "jwt.secret")
}
