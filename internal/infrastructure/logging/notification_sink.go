// Package logging adapta los avisos de usuario al log estructurado.
package logging

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
)

var _ ports.Notifier = (*NotificationSink)(nil)

// NotificationSink registra cada aviso emitido a un kiosco.
type NotificationSink struct {
	log zerolog.Logger
}

// NewNotificationSink construye el sink.
func NewNotificationSink(log zerolog.Logger) *NotificationSink {
	return &NotificationSink{log: log}
}

// Notify escribe el aviso con el nivel equivalente.
func (s *NotificationSink) Notify(n ports.Notification) {
	var ev *zerolog.Event
	switch n.Level {
	case ports.LevelError:
		ev = s.log.Warn()
	case ports.LevelWarning:
		ev = s.log.Info()
	default:
		ev = s.log.Debug()
	}
	ev.Str("level_ui", string(n.Level)).Str("description", n.Description).Msg(n.Title)
}
