package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/agri-dcp-console/pkg/config"
)

const redisOpTimeout = 5 * time.Second

// RedisStore persists the session in Redis so that shared field kiosks can
// hand one signed-in profile between terminals. Keys are namespaced by
// profile: agri:session:<profile>:<entry>.
type RedisStore struct {
	client  *redis.Client
	profile string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg config.RedisConfig, profile string) (*RedisStore, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect session redis: %w", err)
	}

	if profile == "" {
		profile = "default"
	}
	return &RedisStore{client: client, profile: profile}, nil
}

func (s *RedisStore) key(entry string) string {
	return fmt.Sprintf("agri:session:%s:%s", s.profile, entry)
}

func (s *RedisStore) Get(key string) string {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		return ""
	}
	return val
}

func (s *RedisStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.client.Del(ctx, s.key(KeyToken), s.key(KeyRefreshToken), s.key(KeyIdentity)).Err()
}

// Close releases the underlying connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
