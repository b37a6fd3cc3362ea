package maglink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/petgasmx/petgas-portal/internal/errs"
)

// keyPrefix namespaces login-link keys in redis.
const keyPrefix = "petgas:login-link:"

// RedisStore keeps pending login links in redis. TTL handles expiry and
// GETDEL gives one-time consumption across processes.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if errPing := client.Ping(pingCtx).Err(); errPing != nil {
		return nil, fmt.Errorf("maglink: redis ping: %w", errPing)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Issue mints a token bound to email.
func (s *RedisStore) Issue(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", errs.Validation("email is required")
	}

	token := uuid.NewString()
	if errSet := s.client.Set(ctx, keyPrefix+token, email, s.ttl).Err(); errSet != nil {
		return "", errs.Transient(errSet)
	}
	return token, nil
}

// Consume redeems a token exactly once.
func (s *RedisStore) Consume(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errs.Validation("token is required")
	}

	email, errGet := s.client.GetDel(ctx, keyPrefix+token).Result()
	if errGet != nil {
		if errors.Is(errGet, redis.Nil) {
			return "", errs.NotFound("unknown login token")
		}
		return "", errs.Transient(errGet)
	}
	return email, nil
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
