// Package kafka publishes domain events to a Kafka topic. The broker is the
// source of truth for the event history in production deployments; consumers
// (analytics, notification fan-out) read from the topic, never from the
// service's own storage.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"givepact/pkg/platform/events"
)

// Publisher writes events to a single topic, keyed by the donor address so
// per-donor ordering is preserved across partitions.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// New connects to the given brokers. Callers own the returned publisher and
// must Close it on shutdown.
func New(brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(0),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Publisher{client: client, topic: topic}, nil
}

func (p *Publisher) Emit(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Donor.String()),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	p.client.Close()
}
