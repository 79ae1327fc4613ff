package refererstore

import (
	"context"
	"errors"
	"time"
	e "userkit/internal/core/domain/errors"

	"github.com/go-redis/redis/v9"
)

const keyPrefix = "password-flow-referer::"

// Redis holds pending redirect targets of password flows, keyed by the
// caller's flow session. Entries expire so an abandoned flow does not pin
// its referer forever.
type Redis struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewRedis(redisClient *redis.Client, ttl time.Duration) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	return &Redis{redisClient: redisClient, ttl: ttl}
}

func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.redisClient.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Redis) Set(ctx context.Context, key string, value string) error {
	return s.redisClient.Set(ctx, keyPrefix+key, value, s.ttl).Err()
}

func (s *Redis) Remove(ctx context.Context, key string) (string, bool, error) {
	value, err := s.redisClient.GetDel(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
