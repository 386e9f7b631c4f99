package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis initializes and returns a Redis client instance.
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		// Close the client if ping fails
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	fmt.Println("Successfully connected to Redis!")
	return rdb, nil
}

// DisconnectRedis closes the Redis client connection.
func DisconnectRedis(client *redis.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	fmt.Println("Redis connection closed.")
	return nil
}

// FetchJSON runs fetch through the cache-aside pattern with a JSON payload.
// The cache is strictly an accelerator: a nil client disables it, and cache
// failures are logged and fall through to fetch.
func FetchJSON[T any](ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if rdb != nil {
		raw, err := rdb.Get(ctx, key).Bytes()
		if err == nil {
			var value T
			if err := json.Unmarshal(raw, &value); err == nil {
				return value, nil
			}
			log.Printf("Corrupt cache entry %s, refetching", key)
		} else if err != redis.Nil {
			log.Printf("Cache read for %s failed: %v", key, err)
		}
	}

	value, err := fetch()
	if err != nil {
		return value, err
	}

	if rdb != nil {
		if raw, err := json.Marshal(value); err == nil {
			if err := rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
				log.Printf("Cache write for %s failed: %v", key, err)
			}
		}
	}
	return value, nil
}
