package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/school-georesolver/internal/domain"
	redisRepo "github.com/school-georesolver/internal/repository/redis"
)

const (
	testStream = "test:stream:school:resolve"
	testGroup  = "test-group"
)

// getTestRedisClient creates a Redis client for testing
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	client.Del(ctx, testStream)
	t.Cleanup(func() {
		client.Del(context.Background(), testStream)
		client.Close()
	})

	return client
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))

	groups, err := client.XInfoGroups(ctx, testStream).Result()
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, testGroup, groups[0].Name)

	// BUSYGROUP is not an error
	assert.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))
}

func TestStreamRepository_PublishConsumeAck(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))

	event := domain.ResolveRequestEvent{RequestID: uuid.New(), Lat: -9.39, Lon: -38.23}
	require.NoError(t, repo.PublishToStream(ctx, testStream, event))
	require.NoError(t, repo.PublishToStream(ctx, testStream, event))

	messages, err := repo.ConsumeBatch(ctx, testStream, testGroup, "consumer-1", 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	var decoded domain.ResolveRequestEvent
	require.NoError(t, json.Unmarshal([]byte(messages[0].Data), &decoded))
	assert.Equal(t, event.RequestID, decoded.RequestID)

	ids := []string{messages[0].ID, messages[1].ID}
	require.NoError(t, repo.AckMessages(ctx, testStream, testGroup, ids))

	pending, err := client.XPending(ctx, testStream, testGroup).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)

	// Empty queue returns no messages without blocking
	messages, err = repo.ConsumeBatch(ctx, testStream, testGroup, "consumer-1", 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestStreamRepository_AckMessages_Empty(t *testing.T) {
	repo := redisRepo.NewStreamRepository(redis.NewClient(&redis.Options{Addr: "localhost:1"}), zap.NewNop())
	assert.NoError(t, repo.AckMessages(context.Background(), testStream, testGroup, nil))
}

func TestStreamRepository_DropsMessagesWithoutPayload(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: testStream,
		Values: map[string]interface{}{"other": "x"},
	}).Err())
	require.NoError(t, repo.PublishToStream(ctx, testStream, domain.ResolveRequestEvent{RequestID: uuid.New()}))

	messages, err := repo.ConsumeBatch(ctx, testStream, testGroup, "consumer-1", 10)
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	pending, err := client.XPending(ctx, testStream, testGroup).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)
}

func TestStreamRepository_ClaimStale(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))
	event := domain.ResolveRequestEvent{RequestID: uuid.New(), Lat: -9.39, Lon: -38.23}
	require.NoError(t, repo.PublishToStream(ctx, testStream, event))

	// consumer-1 читает и не подтверждает
	read, err := repo.ConsumeBatch(ctx, testStream, testGroup, "consumer-1", 10)
	require.NoError(t, err)
	require.Len(t, read, 1)

	fresh, err := repo.ClaimStale(ctx, testStream, testGroup, "consumer-2", time.Hour, 10)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	claimed, err := repo.ClaimStale(ctx, testStream, testGroup, "consumer-2", 0, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, read[0].ID, claimed[0].ID)

	again, err := repo.ConsumeBatch(ctx, testStream, testGroup, "consumer-2", 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}
