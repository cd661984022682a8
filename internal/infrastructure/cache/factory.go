package cache

import (
	"context"
	"fmt"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/infrastructure/auth"
	"github.com/courseplatform/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores groups the key/value backed stores used by the API
type Stores struct {
	Idempotency shared.IdempotencyStore
	Blacklist   auth.TokenBlacklist
	client      *redis.Client
}

// UsesRedis reports whether the stores are Redis backed
func (s *Stores) UsesRedis() bool {
	return s.client != nil
}

// Close closes the idempotency store and the Redis client, if any
func (s *Stores) Close() error {
	if err := s.Idempotency.Close(); err != nil {
		return err
	}
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// StoreFactory creates stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateInMemoryStores creates process-local stores
func (f *StoreFactory) CreateInMemoryStores() *Stores {
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Blacklist:   auth.NewInMemoryTokenBlacklist(),
	}
}

// CreateStores returns Redis-backed stores when Redis is enabled and reachable.
// Otherwise it falls back to in-memory stores if fallback is allowed.
func (f *StoreFactory) CreateStores(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory idempotency store and token blacklist")
		return f.CreateInMemoryStores(), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis idempotency store and token blacklist", zap.String("addr", f.redisConfig.Addr()))
		return &Stores{
			Idempotency: NewRedisIdempotencyStore(client, DefaultIdempotencyKeyPrefix),
			Blacklist:   auth.NewRedisTokenBlacklist(client),
			client:      client,
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Logout revocations and idempotency keys will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStores(), nil
}
