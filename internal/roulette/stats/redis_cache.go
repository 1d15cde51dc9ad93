package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const summaryKey = "roulette:stats:summary"

// RedisCache guarda o último agregado de estatísticas (sem histórico) com TTL.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// SetSummary grava o agregado; GameHistory é descartado para manter a chave pequena.
func (r *RedisCache) SetSummary(ctx context.Context, s UserStatistics) error {
	s.GameHistory = nil
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, summaryKey, b, r.TTL).Err()
}

// Record invalida o agregado; o próximo leitor recalcula a partir da fonte.
func (r *RedisCache) Record(ctx context.Context, _ GameResult) error {
	return r.Client.Del(ctx, summaryKey).Err()
}

// Summary lê o agregado do cache; found=false quando a chave não existe.
func (r *RedisCache) Summary(ctx context.Context) (UserStatistics, bool, error) {
	b, err := r.Client.Get(ctx, summaryKey).Bytes()
	if err == redis.Nil {
		return UserStatistics{}, false, nil
	}
	if err != nil {
		return UserStatistics{}, false, err
	}
	var s UserStatistics
	if err := json.Unmarshal(b, &s); err != nil {
		return UserStatistics{}, false, err
	}
	return s, true, nil
}

// Statistics lê o agregado do cache; chave ausente devolve estatística zerada.
func (r *RedisCache) Statistics(ctx context.Context) (UserStatistics, error) {
	s, _, err := r.Summary(ctx)
	return s, err
}

// CachedSummary lê primeiro do Redis e, na falta, agrega em Source e popula o cache.
type CachedSummary struct {
	Cache  *RedisCache
	Source Reader
	Log    *zap.Logger
}

func (c *CachedSummary) Statistics(ctx context.Context) (UserStatistics, error) {
	s, ok, err := c.Cache.Summary(ctx)
	if err == nil && ok {
		return s, nil
	}
	if err != nil && c.Log != nil {
		c.Log.Warn("stats cache read failed", zap.Error(err))
	}

	s, err = c.Source.Statistics(ctx)
	if err != nil {
		return UserStatistics{}, err
	}
	s.GameHistory = nil
	if err := c.Cache.SetSummary(ctx, s); err != nil && c.Log != nil {
		c.Log.Warn("stats cache set failed", zap.Error(err))
	}
	return s, nil
}
