package redisstorage

import (
	"context"
	"time"

	"github.com/patagonfinance/vault-service/vault"
	"github.com/redis/go-redis/v9"
)

type RedisStorage interface {
	SetVaultSummary(ctx context.Context, summary *vault.Summary) error
	GetVaultSummary(ctx context.Context) (*vault.Summary, error)
	DeleteVaultSummary(ctx context.Context) error
}

type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}
