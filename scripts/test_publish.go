//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/school-georesolver/internal/domain"
	redisRepo "github.com/school-georesolver/internal/repository/redis"
	"go.uber.org/zap"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	lat := flag.Float64("lat", -9.39, "Latitude")
	lon := flag.Float64("lon", -38.23, "Longitude")
	wait := flag.Duration("wait", 60*time.Second, "How long to wait for the response")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := domain.ResolveRequestEvent{
		RequestID: uuid.New(),
		Lat:       *lat,
		Lon:       *lon,
	}

	// Запоминаем конец стрима ответов до публикации
	lastID := "$"
	if last, err := client.XRevRangeN(ctx, domain.StreamSchoolResolved, "+", "-", 1).Result(); err == nil && len(last) > 0 {
		lastID = last[0].ID
	}

	streams := redisRepo.NewStreamRepository(client, zap.NewNop())
	if err := streams.PublishToStream(ctx, domain.StreamSchoolResolve, event); err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("published %s (%.6f, %.6f) to %s, waiting on %s\n",
		event.RequestID, event.Lat, event.Lon, domain.StreamSchoolResolve, domain.StreamSchoolResolved)

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{domain.StreamSchoolResolved, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Printf("XRead failed: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID

				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var done domain.ResolveDoneEvent
				if err := json.Unmarshal([]byte(dataStr), &done); err != nil {
					continue
				}
				if done.RequestID != event.RequestID {
					continue
				}

				pretty, _ := json.MarshalIndent(done, "", "  ")
				fmt.Printf("%s\n", pretty)
				return
			}
		}
	}

	log.Fatalf("no response for %s within %s", event.RequestID, *wait)
}
