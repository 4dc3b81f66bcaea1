package redisstorage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patagonfinance/vault-service/gerror"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/vault"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	vaultSummaryKey = "vault_summary"
)

// redisStorageImpl implements RedisStorage interface
type redisStorageImpl struct {
	client     RedisClient
	keyPrefix  string
	summaryTTL time.Duration
}

func NewRedisStorage(cfg Config) (RedisStorage, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis address is empty")
	}
	var client RedisClient
	if cfg.IsClusterMode {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addrs[0],
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}
	res, err := client.Ping(context.Background()).Result()
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to redis server")
	}
	log.Debugf("redis health check done, result: %v", res)
	return newRedisStorage(client, cfg), nil
}

func newRedisStorage(client RedisClient, cfg Config) *redisStorageImpl {
	return &redisStorageImpl{client: client, keyPrefix: cfg.KeyPrefix, summaryTTL: cfg.SummaryTTL}
}

func (s *redisStorageImpl) SetVaultSummary(ctx context.Context, summary *vault.Summary) error {
	if s == nil || s.client == nil {
		return errors.New("redis client is nil")
	}
	b, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrap(err, "marshal vault summary error")
	}
	if err := s.client.Set(ctx, s.key(vaultSummaryKey), b, s.summaryTTL).Err(); err != nil {
		return errors.Wrap(err, "SetVaultSummary redis Set error")
	}
	return nil
}

// GetVaultSummary returns gerror.ErrCacheMiss when no summary is cached.
func (s *redisStorageImpl) GetVaultSummary(ctx context.Context) (*vault.Summary, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis client is nil")
	}
	res, err := s.client.Get(ctx, s.key(vaultSummaryKey)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, gerror.ErrCacheMiss
	} else if err != nil {
		return nil, errors.Wrap(err, "GetVaultSummary redis Get error")
	}
	summary := &vault.Summary{}
	if err := json.Unmarshal([]byte(res), summary); err != nil {
		log.Warnf("cannot unmarshal cached vault summary[%v] error[%v]", res, err)
		return nil, gerror.ErrCacheMiss
	}
	return summary, nil
}

func (s *redisStorageImpl) DeleteVaultSummary(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errors.New("redis client is nil")
	}
	if err := s.client.Del(ctx, s.key(vaultSummaryKey)).Err(); err != nil {
		return errors.Wrap(err, "DeleteVaultSummary redis Del error")
	}
	return nil
}

func (s *redisStorageImpl) key(name string) string {
	return s.keyPrefix + name
}

// SummarySink refreshes the cached vault summary after every commit.
type SummarySink struct {
	storage RedisStorage
}

// NewSummarySink creates a SummarySink writing to storage.
func NewSummarySink(storage RedisStorage) *SummarySink {
	return &SummarySink{storage: storage}
}

// OnCommit implements ledger.Sink.
func (s *SummarySink) OnCommit(ctx context.Context, op *ledger.Operation, summary *vault.Summary) {
	if err := s.storage.SetVaultSummary(ctx, summary); err != nil {
		log.Warnf("error caching vault summary after operation[%v]: %v", op.ID, err)
		// a stale summary is worse than none
		if err := s.storage.DeleteVaultSummary(ctx); err != nil {
			log.Errorf("error evicting vault summary: %v", err)
		}
	}
}
