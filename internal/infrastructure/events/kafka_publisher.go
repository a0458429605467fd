// Package events publica los eventos de ciclo de vida de pickups.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
)

var (
	_ ports.EventPublisher = (*KafkaPublisher)(nil)
	_ ports.EventPublisher = Noop{}
)

const publishTimeout = 5 * time.Second

// messageWriter lo que el publicador necesita de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica cada evento como JSON con key = documentId del pickup,
// así todos los eventos de un pickup caen en la misma partición.
type KafkaPublisher struct {
	writer messageWriter
	log    zerolog.Logger
}

// NewKafkaPublisher construye el publicador sobre los brokers y el topic dados.
func NewKafkaPublisher(brokers []string, topic string, log zerolog.Logger) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}, log)
}

func newKafkaPublisher(w messageWriter, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, log: log}
}

// Publish escribe el evento. Los fallos se registran y se devuelven; el llamador no
// debe tratarlos como fatales.
func (p *KafkaPublisher) Publish(ctx context.Context, event ports.PickupEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.PickupID),
		Value: data,
		Time:  event.OccurredAt,
	})
	if err != nil {
		p.log.Error().Err(err).
			Str("event_type", event.Type).
			Str("pickup_id", event.PickupID).
			Msg("no se pudo publicar el evento")
		return fmt.Errorf("kafka: publicar %s: %w", event.Type, err)
	}
	p.log.Debug().Str("event_type", event.Type).Str("pickup_id", event.PickupID).Msg("evento publicado")
	return nil
}

// Close cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop publicador usado cuando no hay brokers configurados.
type Noop struct{}

func (Noop) Publish(context.Context, ports.PickupEvent) error { return nil }
