package ports

import (
	"context"
	"time"
)

// Tipos de evento del ciclo de vida de un pickup.
const (
	EventPickupStarted  = "pickup.started"
	EventPickupFinished = "pickup.finished"
)

// PickupEvent evento publicado cuando el backend confirma un cambio de progreso.
type PickupEvent struct {
	EventID    string             `json:"event_id"`
	Type       string             `json:"type"`
	PickupID   string             `json:"pickup_id"`
	MachineID  string             `json:"machine_id,omitempty"`
	Items      []PickupItemUpdate `json:"items,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// EventPublisher puerto de salida para eventos de dominio (Kafka o no-op).
type EventPublisher interface {
	Publish(ctx context.Context, event PickupEvent) error
}
