package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Store.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Store.TxTimeout)
	assert.Equal(t, "ARS", cfg.Billing.DefaultCurrency)
	assert.Equal(t, "21", cfg.Billing.DefaultTaxRate.String())
	assert.Equal(t, 30, cfg.Billing.DueDays)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("STORE_TX_TIMEOUT_MS", "250")
	t.Setenv("STORE_MAX_RETRIES", "5")
	t.Setenv("BILLING_TAX_RATE", "10.5")
	t.Setenv("BILLING_DEFAULT_CURRENCY", "usd")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Store.TxTimeout)
	assert.Equal(t, 5, cfg.Store.MaxRetries)
	assert.Equal(t, "10.5", cfg.Billing.DefaultTaxRate.String())
	assert.Equal(t, "USD", cfg.Billing.DefaultCurrency)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := config.Load()
	require.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "erp", Password: "p@ss", DBName: "erp", SSLMode: "disable"}
	assert.Equal(t, "postgres://erp:p%40ss@db:5432/erp?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
