package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/focos/internal/constants"
	apperrors "github.com/julianstephens/focos/internal/errors"
)

const (
	redisTimeout     = 5 * time.Second
	redisInitMarker  = "__initialized"
	redisScanBatch   = 100
	redisDefaultAddr = "localhost:6379"
)

// RedisStore keeps each key under "<prefix>:<key>" in a Redis database.
type RedisStore struct {
	url    string
	prefix string
	client *redis.Client
}

func NewRedisStore(url string) *RedisStore {
	return &RedisStore{
		url:    url,
		prefix: constants.AppName,
	}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":" + k
}

func (s *RedisStore) connect(ctx context.Context) error {
	if s.client != nil {
		return nil
	}
	opts, err := redis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}
	if opts.Addr == "" {
		opts.Addr = redisDefaultAddr
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.client = client
	return nil
}

func (s *RedisStore) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := s.connect(ctx); err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(redisInitMarker), time.Now().UTC().Format(time.RFC3339), 0).Err()
}

func (s *RedisStore) Load() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := s.connect(ctx); err != nil {
		return err
	}
	n, err := s.client.Exists(ctx, s.key(redisInitMarker)).Result()
	if err != nil {
		return fmt.Errorf("failed to check redis storage: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotInitialized
	}
	return nil
}

func (s *RedisStore) Close() error {
	if s.client != nil {
		err := s.client.Close()
		s.client = nil
		return err
	}
	return nil
}

func (s *RedisStore) Get(key string) (string, error) {
	if s.client == nil {
		return "", apperrors.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("get %q: %w", key, apperrors.ErrNotFound)
		}
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

// SetMany writes all entries in one MULTI/EXEC transaction.
func (s *RedisStore) SetMany(entries map[string]string) error {
	if s.client == nil {
		return apperrors.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write %d key(s): %w", len(entries), err)
	}
	return nil
}

func (s *RedisStore) Delete(key string) error {
	if s.client == nil {
		return apperrors.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Keys() ([]string, error) {
	if s.client == nil {
		return nil, apperrors.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+":*", redisScanBatch).Iterator()
	for iter.Next(ctx) {
		k := strings.TrimPrefix(iter.Val(), s.prefix+":")
		if k == redisInitMarker {
			continue
		}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *RedisStore) GetConfigPath() string {
	return "redis"
}
