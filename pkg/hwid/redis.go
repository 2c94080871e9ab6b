package hwid

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
)

// RedisTable is the key prefix under which bindings are stored. Each binding
// is a hash at "HWID|<name>" with a single hw_id field, following the
// CONFIG_DB "TABLE|key" convention.
const RedisTable = "HWID"

// DefaultRedisDB is the CONFIG_DB database number.
const DefaultRedisDB = 4

// RedisStore persists bindings in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store for the given address and database.
func NewRedisStore(addr string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
	}
}

// Connect tests the connection
func (s *RedisStore) Connect(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Load reads every binding and builds a table ordered by interface name.
func (s *RedisStore) Load(ctx context.Context) (*Table, error) {
	keys, err := s.client.Keys(ctx, RedisTable+"|*").Result()
	if err != nil {
		return nil, fmt.Errorf("listing %s keys: %w", RedisTable, err)
	}
	sort.Strings(keys)

	bindings := make([]Binding, 0, len(keys))
	for _, key := range keys {
		parts := strings.SplitN(key, "|", 2)
		if len(parts) < 2 {
			continue
		}
		hwID, err := s.client.HGet(ctx, key, "hw_id").Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		bindings = append(bindings, Binding{Name: parts[1], Fingerprint: hwID})
	}
	return NewTable(bindings)
}

// Save writes one binding.
func (s *RedisStore) Save(ctx context.Context, b Binding) error {
	key := RedisTable + "|" + b.Name
	return s.client.HSet(ctx, key, "hw_id", NormalizeFingerprint(b.Fingerprint)).Err()
}

// SaveTable replaces every stored binding with those of t in a single
// transaction. Bindings absent from t are removed, so a fingerprint moved to
// another name never leaves a duplicate behind.
func (s *RedisStore) SaveTable(ctx context.Context, t *Table) error {
	stale, err := s.client.Keys(ctx, RedisTable+"|*").Result()
	if err != nil {
		return fmt.Errorf("listing %s keys: %w", RedisTable, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(stale) > 0 {
			pipe.Del(ctx, stale...)
		}
		for _, b := range t.Bindings() {
			pipe.HSet(ctx, RedisTable+"|"+b.Name, "hw_id", b.Fingerprint)
		}
		return nil
	})
	return err
}

// Delete removes the binding for a logical name.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	return s.client.Del(ctx, RedisTable+"|"+name).Err()
}
