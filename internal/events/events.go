// internal/events/events.go

// Package events publishes order lifecycle events for downstream consumers.
package events

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foodmarket/marketplace/internal/config"
)

const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    uint      `json:"order_id"`
	BuyerID    uint      `json:"buyer_id,omitempty"`
	ProductID  uint      `json:"product_id,omitempty"`
	FromStatus string    `json:"from,omitempty"`
	ToStatus   string    `json:"to"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key partitions events by order so one order's events stay ordered.
func (e OrderEvent) Key() string {
	return strconv.FormatUint(uint64(e.OrderID), 10)
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close()
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// log publisher otherwise.
func NewPublisher(cfg config.KafkaConfig) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		logrus.Info("No Kafka brokers configured, order events go to the log")
		return LogPublisher{}, nil
	}
	return NewKafkaPublisher(cfg)
}

// Emit publishes and logs a failure instead of returning it. Events are
// best effort and never fail the request that produced them.
func Emit(ctx context.Context, p Publisher, event OrderEvent) {
	if p == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := p.Publish(ctx, event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"event":    event.Type,
			"order_id": event.OrderID,
		}).Warn("Failed to publish order event")
	}
}

type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event OrderEvent) error {
	logrus.WithFields(logrus.Fields{
		"event":    event.Type,
		"order_id": event.OrderID,
		"from":     event.FromStatus,
		"to":       event.ToStatus,
		"actor":    event.Actor,
	}).Info("Order event")
	return nil
}

func (LogPublisher) Close() {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []OrderEvent
	Err    error
}

func (r *Recorder) Publish(_ context.Context, event OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() {}

func (r *Recorder) Events() []OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OrderEvent(nil), r.events...)
}
