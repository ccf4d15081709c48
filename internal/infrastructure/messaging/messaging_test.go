package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizprompt-api/internal/domain/service"
	"bizprompt-api/pkg/logger"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPublishIdeaSaved(t *testing.T) {
	client := newTestClient(t)
	producer := NewProducer(client, 100)

	evt := &service.IdeaSavedEvent{
		IdeaID:      "0b7c9f7e-6f43-4d8a-9d53-5a2f2e6f1a11",
		Name:        "LocalLaundry",
		ToolsNeeded: []string{"Stripe", "Figma"},
		RequestID:   "req-42",
	}
	require.NoError(t, producer.PublishIdeaSaved(context.Background(), evt))

	entries, err := client.XRange(context.Background(), string(StreamIdeaSaved), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	msg := decode(entries[0])
	require.NotNil(t, msg)
	assert.Equal(t, TypeIdeaSaved, msg.Type)
	assert.Equal(t, evt.IdeaID, msg.ID)
	assert.Equal(t, "req-42", msg.GetMetadata("request_id"))
	assert.Empty(t, msg.GetMetadata("trace_id"))

	var got service.IdeaSavedEvent
	require.NoError(t, msg.UnmarshalPayload(&got))
	assert.Equal(t, []string{"Stripe", "Figma"}, got.ToolsNeeded)
}

func TestConsumerDeliversToHandler(t *testing.T) {
	client := newTestClient(t)
	producer := NewProducer(client, 100)

	consumer := NewConsumer(client, ConsumerConfig{
		Stream:       StreamIdeaSaved,
		Group:        ConsumerGroupToolRanking,
		ConsumerName: "test",
		BlockTimeout: 50 * time.Millisecond,
	})

	var handled atomic.Int32
	var requestID atomic.Value
	consumer.RegisterHandler(TypeIdeaSaved, func(ctx context.Context, msg *Message) error {
		if v, ok := ctx.Value(logger.RequestIDKey).(string); ok {
			requestID.Store(v)
		}
		handled.Add(1)
		return nil
	})

	ctx := context.Background()
	require.NoError(t, consumer.Start(ctx))
	defer consumer.Stop()

	require.NoError(t, producer.PublishIdeaSaved(ctx, &service.IdeaSavedEvent{IdeaID: "id-1", RequestID: "req-1"}))

	require.Eventually(t, func() bool { return handled.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, "req-1", requestID.Load())
}

func TestConsumerMovesFailingMessageToDLQ(t *testing.T) {
	client := newTestClient(t)
	producer := NewProducer(client, 100)

	consumer := NewConsumer(client, ConsumerConfig{
		Stream:       StreamIdeaSaved,
		Group:        ConsumerGroupToolRanking,
		ConsumerName: "test",
		BlockTimeout: 20 * time.Millisecond,
		RetryLimit:   3,
		Backoff:      BackoffConfig{Initial: time.Millisecond, Max: 5 * time.Millisecond, Multiplier: 2},
	})

	var attempts atomic.Int32
	consumer.RegisterHandler(TypeIdeaSaved, func(context.Context, *Message) error {
		attempts.Add(1)
		return errors.New("ranking unavailable")
	})

	ctx := context.Background()
	require.NoError(t, consumer.Start(ctx))
	defer consumer.Stop()

	require.NoError(t, producer.PublishIdeaSaved(ctx, &service.IdeaSavedEvent{IdeaID: "id-dlq", ToolsNeeded: []string{"Stripe"}}))

	dlq := StreamIdeaSaved.DLQStream()
	require.Eventually(t, func() bool {
		n, err := client.XLen(ctx, dlq).Result()
		return err == nil && n == 1
	}, 3*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		p, err := client.XPending(ctx, string(StreamIdeaSaved), string(ConsumerGroupToolRanking)).Result()
		return err == nil && p.Count == 0
	}, 3*time.Second, 10*time.Millisecond)

	consumer.Stop()
	assert.EqualValues(t, 3, attempts.Load())

	entries, err := client.XRange(ctx, dlq, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	raw, ok := entries[0].Values["data"].(string)
	require.True(t, ok)

	var dead struct {
		OriginalStream string   `json:"original_stream"`
		Data           *Message `json:"data"`
		Error          string   `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &dead))
	assert.Equal(t, string(StreamIdeaSaved), dead.OriginalStream)
	assert.Equal(t, "ranking unavailable", dead.Error)
	require.NotNil(t, dead.Data)
	assert.Equal(t, "id-dlq", dead.Data.ID)
}

func TestConsumerStartTwice(t *testing.T) {
	client := newTestClient(t)
	consumer := NewConsumer(client, ConsumerConfig{
		Stream:       StreamIdeaSaved,
		Group:        ConsumerGroupToolRanking,
		ConsumerName: "test",
		BlockTimeout: 20 * time.Millisecond,
	})

	require.NoError(t, consumer.Start(context.Background()))
	assert.Error(t, consumer.Start(context.Background()))
	consumer.Stop()
	consumer.Stop()
}

func TestCalculateBackoff(t *testing.T) {
	cfg := BackoffConfig{Initial: time.Second, Max: 5 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, cfg.CalculateBackoff(0))
	assert.Equal(t, 4*time.Second, cfg.CalculateBackoff(2))
	assert.Equal(t, 5*time.Second, cfg.CalculateBackoff(10))
}

func TestDLQStreamName(t *testing.T) {
	assert.Equal(t, "dlq:stream:idea:saved", StreamIdeaSaved.DLQStream())
}
