package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
logger:
  level: ${NOTES_TEST_LOG_LEVEL:-debug}
server:
  port_grpc: 6000
storage:
  driver: bolt
  path: ${NOTES_TEST_DB:-/tmp/notes.db}
auth:
  jwt_secret: ${NOTES_TEST_SECRET}
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func TestExpandPlaceholders(t *testing.T) {
	t.Setenv("NOTES_TEST_SET", "value")

	assert.Equal(t, "value", expandPlaceholders("${NOTES_TEST_SET:-fallback}"))
	assert.Equal(t, "fallback", expandPlaceholders("${NOTES_TEST_UNSET:-fallback}"))
	assert.Equal(t, "", expandPlaceholders("${NOTES_TEST_UNSET}"))
	assert.Equal(t, "plain", expandPlaceholders("plain"))
}

func TestLoad_ExpandsEnvAndFillsDefaults(t *testing.T) {
	t.Setenv("NOTES_TEST_SECRET", "s3cret")
	path := writeConfig(t)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 6000, cfg.Server.PortGRPC)
	assert.Equal(t, "bolt", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/notes.db", cfg.Storage.Path)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)

	require.NotNil(t, cfg.Gateway, "missing sections get defaults")
	assert.Equal(t, 100, cfg.Gateway.RateLimitRPS)
	require.NotNil(t, cfg.Client)
}

func TestLoad_EnvOverridesFileKeys(t *testing.T) {
	t.Setenv("NOTES_SERVER_PORT_GRPC", "7000")
	t.Setenv("NOTES_STORAGE_DRIVER", "memory")
	path := writeConfig(t)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.PortGRPC)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, true, coerce("true"))
	assert.Equal(t, 42, coerce("42"))
	assert.Equal(t, "1s", coerce("1s"))
	assert.Equal(t, "T", coerce("T"))
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yml")

	cfg, err := Load(missing, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, false)
	assert.Error(t, err)
}
