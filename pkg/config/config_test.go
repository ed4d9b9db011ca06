package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/commerce-invoicing/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTP.Addr())
	assert.Equal(t, 5*time.Second, cfg.Invoice.LogoTimeout)
	assert.Equal(t, "Bon Beau Joli", cfg.Invoice.DefaultCompanyName)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestFromViper_SobrescribeDesdeClaves(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "8081")
	v.Set("SMTP_STORE_COPY_TO", "shop@example.com")
	v.Set("INVOICE_TIMEZONE", "UTC")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "shop@example.com", cfg.SMTP.StoreCopyTo)
	assert.Equal(t, time.UTC, cfg.Invoice.Location())
}

func TestFromViper_LimitesDelPool(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)

	v := viper.New()
	v.Set("DB_MAX_CONNS", "40")
	v.Set("DB_MIN_CONNS", "4")
	v.Set("DB_MAX_CONN_LIFETIME_MINUTES", "15")
	v.Set("DB_MAX_CONN_IDLE_MINUTES", "5")
	cfg, err = config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.DB.MaxConns)
	assert.Equal(t, 4, cfg.DB.MinConns)
	assert.Equal(t, 15*time.Minute, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, cfg.DB.MaxConnIdleTime)
}

func TestFromViper_MinConnsMayorQueMax(t *testing.T) {
	v := viper.New()
	v.Set("DB_MAX_CONNS", 2)
	v.Set("DB_MIN_CONNS", 5)
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestFromViper_TimeoutInvalido(t *testing.T) {
	v := viper.New()
	v.Set("INVOICE_LOGO_TIMEOUT_SECONDS", 0)
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestInvoiceConfig_LocationInvalidaUsaUTC(t *testing.T) {
	c := config.InvoiceConfig{Timezone: "Mars/Olympus"}
	assert.Equal(t, time.UTC, c.Location())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/shop?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
