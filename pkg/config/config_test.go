package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-locker-kiosk/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "pickup", cfg.Kiosk.CheckoutMode)
	assert.Equal(t, 16, cfg.Kiosk.LockerCount)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, "kiosk.pickups", cfg.Kafka.Topic)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.DB.InMemory())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, int32(4), cfg.DB.MaxConns)
	assert.Equal(t, int32(1), cfg.DB.MinConns)
	assert.Equal(t, 5*time.Second, cfg.DB.ConnectTimeout())
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("KIOSK_CHECKOUT_MODE", "purchase")
	t.Setenv("KIOSK_LOCKER_COUNT", "8")
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com/api")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("HTTP_PORT", "no-es-numero")
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_FORCE_IPV4", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.DB.InMemory())
	assert.Equal(t, "purchase", cfg.Kiosk.CheckoutMode)
	assert.Equal(t, 8, cfg.Kiosk.LockerCount)
	assert.Equal(t, "https://api.example.com/api", cfg.Backend.BaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 8080, cfg.HTTP.Port, "un entero inválido cae al default")
	assert.Equal(t, int32(2), cfg.DB.MaxConns)
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestLoad_LockerCountInvalido(t *testing.T) {
	t.Setenv("KIOSK_LOCKER_COUNT", "0")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_MaxConnsInvalido(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "0")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "kiosk", Password: "p@ss", DBName: "smart_locker", SSLMode: "disable"}
	assert.Equal(t, "postgres://kiosk:p%40ss@db:5432/smart_locker?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
