package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want domain.ErrorKind
	}{
		{nil, domain.KindUnknown},
		{errors.New("otro"), domain.KindUnknown},
		{domain.ErrNoMachineSelected, domain.KindSelection},
		{domain.ErrLockerClosed, domain.KindSelection},
		{domain.ErrCapacityExceeded, domain.KindCapacity},
		{domain.ErrStockExhausted, domain.KindCapacity},
		{domain.ErrDoorsOpen, domain.KindConsistency},
		{domain.ErrStaleResponse, domain.KindConsistency},
		{fmt.Errorf("%w: HTTP 502", domain.ErrBackendUnavailable), domain.KindNetwork},
		// Un fallo de inicio que envuelve un 404 sigue siendo de red.
		{fmt.Errorf("%w: %w", domain.ErrPickupStartFailed, domain.ErrNotFound), domain.KindNetwork},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.KindOf(tt.err), "%v", tt.err)
	}
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "capacity", domain.KindCapacity.String())
	assert.Equal(t, "unknown", domain.ErrorKind(99).String())
}
