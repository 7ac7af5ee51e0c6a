package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcbrain/arcbrain/internal/common/logger"
)

func testBus(t *testing.T) *MemoryEventBus {
	t.Helper()
	log, err := logger.NewLogger(logger.LoggingConfig{Level: "error", Format: "json", OutputPath: "stdout"})
	require.NoError(t, err)
	return NewMemoryEventBus(log)
}

func waitFor(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	b := testBus(t)
	defer b.Close()

	received := make(chan *Event, 1)
	_, err := b.Subscribe("arcbrain.agents", func(ctx context.Context, e *Event) error {
		received <- e
		return nil
	})
	require.NoError(t, err)

	event := NewEvent("agent.created", "test", map[string]any{"agent_id": "a1"})
	require.NoError(t, b.Publish(context.Background(), "arcbrain.agents", event))

	got := waitFor(t, received)
	assert.Equal(t, "agent.created", got.Type)
	assert.Equal(t, "a1", got.Data["agent_id"])
	assert.NotEmpty(t, got.ID)
}

func TestMemoryBus_WildcardSubscription(t *testing.T) {
	b := testBus(t)
	defer b.Close()

	received := make(chan *Event, 2)
	_, err := b.Subscribe("arcbrain.runs.*", func(ctx context.Context, e *Event) error {
		received <- e
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "arcbrain.runs.agent-1", NewEvent("agent.run.started", "test", nil)))
	require.NoError(t, b.Publish(context.Background(), "arcbrain.runs.agent-2", NewEvent("agent.run.completed", "test", nil)))

	types := map[string]bool{}
	types[waitFor(t, received).Type] = true
	types[waitFor(t, received).Type] = true
	assert.True(t, types["agent.run.started"])
	assert.True(t, types["agent.run.completed"])
}

func TestMemoryBus_WildcardDoesNotCrossTokens(t *testing.T) {
	b := testBus(t)
	defer b.Close()

	var mu sync.Mutex
	count := 0
	_, err := b.Subscribe("arcbrain.runs.*", func(ctx context.Context, e *Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	// Two tokens after the prefix must not match a single-token wildcard
	require.NoError(t, b.Publish(context.Background(), "arcbrain.runs.agent-1.extra", NewEvent("x", "test", nil)))
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	b := testBus(t)
	defer b.Close()

	received := make(chan *Event, 1)
	sub, err := b.Subscribe("arcbrain.agents", func(ctx context.Context, e *Event) error {
		received <- e
		return nil
	})
	require.NoError(t, err)
	assert.True(t, sub.IsValid())

	require.NoError(t, sub.Unsubscribe())
	assert.False(t, sub.IsValid())

	require.NoError(t, b.Publish(context.Background(), "arcbrain.agents", NewEvent("agent.updated", "test", nil)))

	select {
	case <-received:
		t.Fatal("received event after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBus_ClosedBusRejectsPublish(t *testing.T) {
	b := testBus(t)
	b.Close()

	assert.False(t, b.IsConnected())
	err := b.Publish(context.Background(), "arcbrain.agents", NewEvent("agent.created", "test", nil))
	assert.Error(t, err)

	_, err = b.Subscribe("arcbrain.agents", func(ctx context.Context, e *Event) error { return nil })
	assert.Error(t, err)
}
