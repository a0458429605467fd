package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
)

type fakeWriter struct {
	msgs     []kafka.Message
	err      error
	deadline bool
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, w.deadline = ctx.Deadline()
	if w.err != nil {
		return w.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublicaConKeyDelPickup(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, zerolog.Nop())
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), ports.PickupEvent{
		EventID:    "e1",
		Type:       ports.EventPickupFinished,
		PickupID:   "code-1",
		MachineID:  "m1",
		Items:      []ports.PickupItemUpdate{{Product: "p1", Required: 2, Shipped: 2}},
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.True(t, w.deadline, "cada publicación lleva timeout propio")

	msg := w.msgs[0]
	assert.Equal(t, "code-1", string(msg.Key))
	assert.Equal(t, at, msg.Time)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "pickup.finished", got["type"])
	assert.Equal(t, "m1", got["machine_id"])
}

// Un request HTTP cancelado no debe perder el evento.
func TestKafkaPublisher_IgnoraCancelacionDelLlamador(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Publish(ctx, ports.PickupEvent{Type: ports.EventPickupStarted, PickupID: "code-1"}))
	assert.Len(t, w.msgs, 1)
}

func TestKafkaPublisher_ErrorSeRegistra(t *testing.T) {
	var logs bytes.Buffer
	w := &fakeWriter{err: errors.New("broker caído")}
	p := newKafkaPublisher(w, zerolog.New(&logs))

	err := p.Publish(context.Background(), ports.PickupEvent{Type: ports.EventPickupStarted, PickupID: "code-1"})
	assert.Error(t, err)
	assert.Contains(t, logs.String(), "broker caído")
	assert.Contains(t, logs.String(), "code-1")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), ports.PickupEvent{}))
}
