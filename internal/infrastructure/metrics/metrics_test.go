package metrics_test

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/metrics"
)

func TestObserveOperation_Etiquetas(t *testing.T) {
	m := metrics.New(nil)

	m.ObserveOperation("add_to_cart", nil)
	m.ObserveOperation("add_to_cart", domain.ErrCapacityExceeded)
	m.ObserveOperation("add_to_cart", domain.ErrCapacityExceeded)
	m.ObserveOperation("start_pickup", domain.ErrStaleResponse)
	m.ObserveOperation("checkout", fmt.Errorf("%w: 502", domain.ErrPickupFinishFailed))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("add_to_cart", "ok", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("add_to_cart", "error", "capacity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("start_pickup", "stale", "consistency")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("checkout", "error", "network")))
}

func TestHandler_ExponeSesionesActivas(t *testing.T) {
	m := metrics.New(func() float64 { return 3 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "kiosk_active_sessions 3")
}
