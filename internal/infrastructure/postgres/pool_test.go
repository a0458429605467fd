package postgres

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-locker-kiosk/pkg/config"
)

func testDBConfig() config.DBConfig {
	return config.DBConfig{
		Host:                  "db",
		Port:                  5432,
		User:                  "kiosk",
		Password:              "secreto",
		DBName:                "smart_locker",
		SSLMode:               "disable",
		MaxConns:              4,
		MinConns:              1,
		ConnectTimeoutSeconds: 3,
	}
}

func funcPtr(fn any) uintptr { return reflect.ValueOf(fn).Pointer() }

func TestBuildPoolConfig_TamanoDesdeConfig(t *testing.T) {
	pc, err := buildPoolConfig(testDBConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(4), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, 3*time.Second, pc.ConnConfig.ConnectTimeout)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.NotEqual(t, funcPtr(dialIPv4), funcPtr(pc.ConnConfig.DialFunc), "sin DB_FORCE_IPV4 se usa el dial de pgx")
	assert.NotNil(t, pc.AfterConnect, "registra el codec decimal")
}

func TestBuildPoolConfig_MinNoSuperaMax(t *testing.T) {
	cfg := testDBConfig()
	cfg.MaxConns = 2
	cfg.MinConns = 5

	pc, err := buildPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(2), pc.MinConns)
}

func TestBuildPoolConfig_ForceIPv4(t *testing.T) {
	cfg := testDBConfig()
	cfg.ForceIPv4 = true

	pc, err := buildPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, funcPtr(dialIPv4), funcPtr(pc.ConnConfig.DialFunc))
}

func TestBuildPoolConfig_DatabaseURLInvalida(t *testing.T) {
	cfg := testDBConfig()
	cfg.DatabaseURL = "postgres://%zz"

	_, err := buildPoolConfig(cfg)
	assert.Error(t, err)
}
