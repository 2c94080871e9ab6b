//go:build integration

package testutil

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
)

// SeedRedis writes entries into a Redis database. The map layout is
// TABLE -> key -> field -> value; each entry becomes a hash at "TABLE|key".
func SeedRedis(t *testing.T, addr string, db int, tables map[string]map[string]map[string]string) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer client.Close()

	ctx := context.Background()

	for table, entries := range tables {
		for key, fields := range entries {
			redisKey := table + "|" + key
			args := make([]interface{}, 0, len(fields)*2)
			for k, v := range fields {
				args = append(args, k, v)
			}
			if err := client.HSet(ctx, redisKey, args...).Err(); err != nil {
				t.Fatalf("seeding %s: %v", redisKey, err)
			}
		}
	}
}

// FlushDB flushes a specific Redis database.
func FlushDB(t *testing.T, addr string, db int) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer client.Close()

	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("flushing DB %d: %v", db, err)
	}
}

// ReadEntry reads a hash entry from a specific Redis DB.
func ReadEntry(t *testing.T, addr string, db int, table, key string) map[string]string {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer client.Close()

	redisKey := table + "|" + key
	vals, err := client.HGetAll(context.Background(), redisKey).Result()
	if err != nil {
		t.Fatalf("reading %s: %v", redisKey, err)
	}
	return vals
}
