package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAPI_RequiresJWTSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "")

	// the worker loads the same config and never signs tokens
	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.ValidateAPI()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.ValidateAPI())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ORDERS_TABLE", "prod-orders")
	t.Setenv("RUN_LOCAL", "true")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod-orders", cfg.Tables.Orders)
	assert.Equal(t, "carts", cfg.Tables.Carts)
	assert.True(t, cfg.RunLocal)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, 48*time.Hour, cfg.IdempotencyTTL)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
port: "9090"
jwt_secret: from-file
tables:
  products: catalog
kafka_brokers: "k1:9092,k2:9092"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port, "env wins over file")
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "catalog", cfg.Tables.Products)
	assert.Equal(t, "users", cfg.Tables.Users, "defaults survive partial files")
	assert.Equal(t, "k1:9092,k2:9092", cfg.KafkaBrokers)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("JWT_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
}
