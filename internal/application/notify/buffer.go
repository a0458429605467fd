// Package notify acumula los avisos de una sesión hasta que la UI los consume.
package notify

import (
	"sync"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
)

// maxPending límite de avisos retenidos si la UI no los consume; se descartan los más viejos.
const maxPending = 50

var _ ports.Notifier = (*Buffer)(nil)

// Buffer cola de avisos por sesión. Reenvía cada aviso a sink (ej. el logger) si no es nil.
type Buffer struct {
	mu      sync.Mutex
	pending []ports.Notification
	sink    ports.Notifier
}

// NewBuffer construye la cola.
func NewBuffer(sink ports.Notifier) *Buffer {
	return &Buffer{sink: sink}
}

// Notify encola el aviso.
func (b *Buffer) Notify(n ports.Notification) {
	b.mu.Lock()
	b.pending = append(b.pending, n)
	if over := len(b.pending) - maxPending; over > 0 {
		b.pending = append([]ports.Notification(nil), b.pending[over:]...)
	}
	b.mu.Unlock()
	if b.sink != nil {
		b.sink.Notify(n)
	}
}

// Drain devuelve y vacía los avisos pendientes.
func (b *Buffer) Drain() []ports.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}

// Discard Notifier que ignora todo.
type Discard struct{}

func (Discard) Notify(ports.Notification) {}
