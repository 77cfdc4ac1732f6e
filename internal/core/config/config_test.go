package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, 24*time.Hour, c.JWT.TTL())
	assert.Equal(t, "token", c.JWT.CookieName)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.False(t, c.Redis.Enabled())
	assert.False(t, c.Security.GuardCategoryWrites)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: production
  http:
    port: 9090
jwt:
  secret: from-file
  accessTokenTTLMin: 60
db:
  driver: memory
redis:
  addr: 127.0.0.1:6379
  ttl: 30s
`), 0o600))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_JWT_SECRET", "")
	t.Setenv("APP_DB_DRIVER", "mysql")
	t.Setenv("APP_DB_DSN", "root:pw@tcp(127.0.0.1:3306)/shop")

	c, err := Load(path)
	require.NoError(t, err)

	assert.True(t, c.App.IsProduction())
	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "from-file", c.JWT.Secret)
	assert.Equal(t, time.Hour, c.JWT.TTL())
	assert.Equal(t, "mysql", c.DB.Driver)
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/shop", c.DB.DSN)
	assert.Equal(t, 30*time.Second, c.Redis.TTL)
	assert.True(t, c.Redis.Enabled())
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	c := &Config{}
	c.DB.Driver = "sqlite"
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
	assert.Contains(t, err.Error(), "unsupported db.driver")

	c = &Config{}
	c.JWT.Secret = "x"
	c.JWT.AccessTokenTTLMin = 10
	c.DB.Driver = "postgres"
	assert.ErrorContains(t, c.Validate(), "db.dsn")

	c.DB.Driver = "memory"
	assert.NoError(t, c.Validate())
}
