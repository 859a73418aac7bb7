// internal/events/kafka.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/foodmarket/marketplace/internal/config"
)

const defaultPublishTimeout = 5 * time.Second

type KafkaPublisher struct {
	client  *kgo.Client
	topic   string
	timeout time.Duration
}

// NewKafkaPublisher builds a producer whose records fail once the publish
// timeout passes, so an unreachable broker cannot hold a request open.
func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	timeout := time.Duration(cfg.PublishTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.AllowAutoTopicCreation(),
		kgo.RecordDeliveryTimeout(timeout),
		kgo.ProduceRequestTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
	}).Info("Kafka publisher ready")
	return &KafkaPublisher{client: client, topic: cfg.Topic, timeout: timeout}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Key()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan error, 1)
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		done <- err
	})

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("kafka publish of %s for order %d: %w", event.Type, event.OrderID, ctx.Err())
	}
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
