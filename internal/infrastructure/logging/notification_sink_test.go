package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/logging"
)

func TestNotificationSink_Niveles(t *testing.T) {
	tests := []struct {
		in   ports.Notification
		want string
	}{
		{ports.Failure(domain.ErrDoorsOpen), "warn"},
		{ports.Warning("Some products are missing in the locker", ""), "info"},
		{ports.Success("Checkout Successful", ""), "debug"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sink := logging.NewNotificationSink(zerolog.New(&buf).Level(zerolog.DebugLevel))
		sink.Notify(tt.in)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, tt.want, line["level"])
		assert.Equal(t, tt.in.Title, line["message"])
		assert.Equal(t, string(tt.in.Level), line["level_ui"])
	}
}
