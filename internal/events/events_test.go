package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodmarket/marketplace/internal/config"
)

func TestNewPublisherWithoutBrokers(t *testing.T) {
	p, err := NewPublisher(config.KafkaConfig{Topic: "orders"})
	require.NoError(t, err)
	assert.IsType(t, LogPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{Type: TypeOrderPlaced, OrderID: 1}))
}

func TestNewPublisherWithBrokers(t *testing.T) {
	// kgo connects lazily, so building the client needs no broker.
	p, err := NewPublisher(config.KafkaConfig{Brokers: []string{"127.0.0.1:9092"}, Topic: "orders"})
	require.NoError(t, err)
	defer p.Close()
	assert.IsType(t, &KafkaPublisher{}, p)
}

func TestKafkaPublishGivesUpOnDeadBroker(t *testing.T) {
	p, err := NewKafkaPublisher(config.KafkaConfig{Brokers: []string{"127.0.0.1:1"}, Topic: "orders", PublishTimeout: 200})
	require.NoError(t, err)
	defer p.Close()

	start := time.Now()
	err = p.Publish(context.Background(), OrderEvent{Type: TypeOrderPlaced, OrderID: 7})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestEmitStampsAndSwallowsErrors(t *testing.T) {
	rec := &Recorder{}
	Emit(context.Background(), rec, OrderEvent{Type: TypeOrderStatusChanged, OrderID: 42, ToStatus: "Shipped"})

	got := rec.Events()
	require.Len(t, got, 1)
	assert.False(t, got[0].OccurredAt.IsZero())
	assert.Equal(t, "42", got[0].Key())

	rec.Err = errors.New("broker down")
	assert.NotPanics(t, func() {
		Emit(context.Background(), rec, OrderEvent{Type: TypeOrderPlaced, OrderID: 43})
	})
	assert.Len(t, rec.Events(), 1)

	assert.NotPanics(t, func() { Emit(context.Background(), nil, OrderEvent{}) })
}
