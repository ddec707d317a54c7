package mykafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoBrokersReturnsNop(t *testing.T) {
	t.Parallel()

	p, err := New(nil)
	require.NoError(t, err)
	_, ok := p.(Nop)
	assert.True(t, ok)

	require.NoError(t, p.PublishEvent(context.Background(), TopicOrders, "k", map[string]any{"type": "x"}))
	require.NoError(t, p.Close())
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewProducer(nil)
	require.Error(t, err)
}

func TestNew_WithBrokers(t *testing.T) {
	t.Parallel()

	p, err := New([]string{"localhost:9092"})
	require.NoError(t, err)
	_, ok := p.(*Producer)
	assert.True(t, ok)
	require.NoError(t, p.Close())
}

func TestPublishEvent_MarshalError(t *testing.T) {
	t.Parallel()

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	defer p.Close()

	err = p.PublishEvent(context.Background(), TopicOrders, "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}
