// Package cache 缓存用户摘要，减少聚合查询对 users 表的回表。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/pkg/logger"
	"github.com/d60-Lab/videohub/pkg/metrics"
)

// SummarySource 用户摘要的权威来源（通常是 UserRepository）
type SummarySource interface {
	GetSummaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error)
}

// UserSummaryCache 读穿缓存：先 MGET，缺失的批量回源并回填。
// redis 故障时由熔断器快速失败，直接回源，不影响请求结果。
type UserSummaryCache struct {
	source  SummarySource
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
}

func NewUserSummaryCache(source SummarySource, client *redis.Client, ttl time.Duration) *UserSummaryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-user-summary",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 调用方取消或超时不代表 redis 故障
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return &UserSummaryCache{source: source, client: client, ttl: ttl, breaker: cb}
}

func key(id string) string { return fmt.Sprintf("user:summary:%s", id) }

// GetSummaries 批量获取摘要，缺失的用户不出现在结果中
func (c *UserSummaryCache) GetSummaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error) {
	out := make(map[string]model.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	vals, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.MGet(ctx, keys...).Result()
	})
	if err != nil {
		logger.Debug("summary cache read skipped", zap.Error(err))
	} else {
		for i, v := range vals.([]interface{}) {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var s model.UserSummary
			if json.Unmarshal([]byte(str), &s) == nil {
				out[ids[i]] = s
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			missing = append(missing, id)
		}
	}
	metrics.CacheLookups.WithLabelValues("hit").Add(float64(len(ids) - len(missing)))
	metrics.CacheLookups.WithLabelValues("miss").Add(float64(len(missing)))
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := c.source.GetSummaries(ctx, missing)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, loaded)
	for id, s := range loaded {
		out[id] = s
	}
	return out, nil
}

func (c *UserSummaryCache) fill(ctx context.Context, loaded map[string]model.UserSummary) {
	if len(loaded) == 0 {
		return
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		pipe := c.client.Pipeline()
		for id, s := range loaded {
			payload, err := json.Marshal(s)
			if err != nil {
				continue
			}
			pipe.Set(ctx, key(id), payload, c.ttl)
		}
		_, err := pipe.Exec(ctx)
		return nil, err
	})
	if err != nil && !errors.Is(err, gobreaker.ErrOpenState) {
		logger.Warn("summary cache fill failed", zap.Error(err))
	}
}
