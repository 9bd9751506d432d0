package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelinelabs/giftnest-backend/pkg/config"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

const connectAttempts = 5

// Redis stores snapshots as plain string values in Redis.
type Redis struct {
	raw *redis.Client
}

// NewRedis bootstraps a Redis snapshot store and verifies connectivity,
// retrying the initial ping with exponential backoff.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Redis, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)

	backoff := retry.WithMaxRetries(connectAttempts, retry.NewExponential(200*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := raw.Ping(ctx).Err(); err != nil {
			if logg != nil {
				logg.Warn(ctx, "redis not reachable yet, retrying")
			}
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Load returns the snapshot stored at key, or (nil, nil) when absent.
func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	if r.raw == nil {
		return nil, errors.New("redis snapshot store not initialized")
	}
	value, err := r.raw.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Save writes the snapshot without expiry; the stores own key lifecycle.
func (r *Redis) Save(ctx context.Context, key string, value []byte) error {
	if r.raw == nil {
		return errors.New("redis snapshot store not initialized")
	}
	return r.raw.Set(ctx, key, value, 0).Err()
}

// Ping verifies the connection.
func (r *Redis) Ping(ctx context.Context) error {
	if r.raw == nil {
		return errors.New("redis snapshot store not initialized")
	}
	return r.raw.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (r *Redis) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}
