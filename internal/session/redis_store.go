package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the remote backend, grounded on the teacher's Redis usage
// throughout gateway/main.go, bank-service/go/handlers.go, and
// observability-service/main.go, and on api/session.py's
// RedisSessionStore (redis.asyncio with setex).
type RedisStore struct {
	client *redis.Client
	prefix string
}

const defaultPrefix = "blackjack:session:"

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: defaultPrefix}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Get(ctx context.Context, key string) (Data, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, data Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), raw, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Open attempts to connect to Redis at addr and ping it; on any failure it
// returns (nil, false) so the caller falls back to the in-process backend
// without error, exactly per api/session.py's get_session_store() and
// spec.md §4.9's "Backend selection attempts the remote backend first; on
// connect-failure it falls back to in-process without error."
func Open(addr string, db int, password string) (*RedisStore, bool) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db, Password: password})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, false
	}
	return NewRedisStore(client), true
}

// SelectBackend tries the remote backend first, falling back silently to an
// in-process store on connect failure.
func SelectBackend(addr string, db int, password string) Store {
	if rs, ok := Open(addr, db, password); ok {
		return rs
	}
	return NewInMemoryStore()
}
