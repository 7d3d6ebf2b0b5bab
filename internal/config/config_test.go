package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "test")
	t.Setenv("DB_NAME", "test_db")
	t.Setenv("DB_PORT", "5432")
	os.Unsetenv("DB_MAX_OPEN_CONNS")
	os.Unsetenv("TX_TIMEOUT")
	os.Unsetenv("TAX_RATE")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 20, cfg.DBMaxOpenConns)
	assert.Equal(t, 5, cfg.DBMaxIdleConns)
	assert.Equal(t, 5*time.Second, cfg.TxTimeout)
	assert.Equal(t, float64(0), cfg.TaxRate)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("TX_TIMEOUT", "2s")
	t.Setenv("TAX_RATE", "0.1")

	cfg := LoadConfig()

	assert.Equal(t, 50, cfg.DBMaxOpenConns)
	assert.Equal(t, 2*time.Second, cfg.TxTimeout)
	assert.Equal(t, 0.1, cfg.TaxRate)
}

func TestEnvHelpers_InvalidValues(t *testing.T) {
	t.Setenv("BAD_INT", "not-a-number")
	t.Setenv("BAD_FLOAT", "nope")
	t.Setenv("BAD_DURATION", "yesterday")

	assert.Equal(t, 7, envInt("BAD_INT", 7))
	assert.Equal(t, 1.5, envFloat("BAD_FLOAT", 1.5))
	assert.Equal(t, time.Minute, envDuration("BAD_DURATION", time.Minute))
}
