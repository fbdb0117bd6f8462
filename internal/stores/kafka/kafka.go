// Package kafka mirrors storefront events onto a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/events"
	"storefront/pkg/logkey"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

type Conf struct {
	client *kgo.Client
}

// NewConf connects to the seed brokers. Records without a topic go to topic.
func NewConf(ctx context.Context, brokers []string, topic string) (*Conf, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}
	return &Conf{client: client}, nil
}

// Close flushes buffered records and closes the client.
func (k *Conf) Close(ctx context.Context) {
	if err := k.client.Flush(ctx); err != nil {
		slog.Error("flushing kafka producer", slog.String(logkey.ERROR, err.Error()))
	}
	k.client.Close()
}

type producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// Publisher is an events.Sink. Records are keyed by event name so each kind
// keeps its order within a partition.
type Publisher struct {
	producer producer
	topic    string
	now      func() time.Time
}

func NewPublisher(k *Conf, topic string) *Publisher {
	return newPublisher(k.client, topic)
}

func newPublisher(p producer, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{producer: p, topic: topic, now: time.Now}
}

func (p *Publisher) Name() string { return "kafka" }

// Deliver hands the record to the client without waiting for the broker;
// failures surface in the log.
func (p *Publisher) Deliver(ctx context.Context, ev events.Event) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", ev.Name, err)
	}
	value, err := json.Marshal(StructureOfEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      string(ev.Name),
		Data:      data,
		CreatedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", ev.Name, err)
	}

	record := &kgo.Record{Topic: p.topic, Key: []byte(ev.Name), Value: value}
	p.producer.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			slog.Error("Failed to produce message",
				slog.String(logkey.Event, string(r.Key)),
				slog.String(logkey.ERROR, err.Error()))
		}
	})
	return nil
}
