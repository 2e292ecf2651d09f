package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements a Redis-backed raw cache store. Each record is a
// Redis hash keyed by prefix + type + ":" + id, with JSON-encoded field
// values. Note that JSON round-tripping gives every GetRaw fresh raw
// objects, so the @identity key strategy is unstable over this backend by
// nature; use @hash or field keys with it.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig holds Redis-specific configuration.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string
	// Password is the Redis password (optional).
	Password string
	// DB is the Redis database number.
	DB int
	// Prefix is prepended to all record keys.
	Prefix string
}

// DefaultRedisConfig returns a default Redis configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:   "localhost:6379",
		Prefix: "cachegraph:",
	}
}

// NewRedisStore creates a Redis store and verifies connectivity.
func NewRedisStore(config RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client, prefix: config.Prefix}, nil
}

// NewRedisStoreWithClient creates a Redis store around an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(resourceType, id string) string {
	return r.prefix + resourceType + ":" + id
}

// GetRaw retrieves the raw record for a resource.
func (r *RedisStore) GetRaw(ctx context.Context, resourceType, id string) (map[string]any, error) {
	fields, err := r.client.HGetAll(ctx, r.key(resourceType, id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrRecordMiss{Type: resourceType, ID: id}
	}

	record := make(map[string]any, len(fields))
	for name, encoded := range fields {
		var value any
		if err := json.Unmarshal([]byte(encoded), &value); err != nil {
			return nil, fmt.Errorf("corrupt field %s on %s/%s: %w", name, resourceType, id, err)
		}
		record[name] = value
	}
	return record, nil
}

// SetRaw stores one raw field value.
func (r *RedisStore) SetRaw(ctx context.Context, resourceType, id, fieldName string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("unencodable value for field %s on %s/%s: %w", fieldName, resourceType, id, err)
	}
	return r.client.HSet(ctx, r.key(resourceType, id), fieldName, encoded).Err()
}

// DeleteRaw removes a record.
func (r *RedisStore) DeleteRaw(ctx context.Context, resourceType, id string) error {
	return r.client.Del(ctx, r.key(resourceType, id)).Err()
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
