package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nasiyahub/ledger-engine/internal/domain"
)

// StatsCache holds per-store aggregate reports between mutations.
type StatsCache interface {
	GetDebtorStatistics(ctx context.Context, storeID uuid.UUID) (*domain.DebtorStatistics, bool)
	SetDebtorStatistics(ctx context.Context, storeID uuid.UUID, stats *domain.DebtorStatistics)
	GetDashboard(ctx context.Context, storeID uuid.UUID) (*domain.DashboardSummary, bool)
	SetDashboard(ctx context.Context, storeID uuid.UUID, summary *domain.DashboardSummary)
	// Invalidate drops every cached report for the store.
	Invalidate(ctx context.Context, storeID uuid.UUID)
}

type redisStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) StatsCache {
	return &redisStatsCache{rdb: rdb, ttl: ttl, log: log}
}

func debtorStatsKey(storeID uuid.UUID) string {
	return fmt.Sprintf("stats:debtors:%s", storeID)
}

func dashboardKey(storeID uuid.UUID) string {
	return fmt.Sprintf("stats:dashboard:%s", storeID)
}

func (c *redisStatsCache) GetDebtorStatistics(ctx context.Context, storeID uuid.UUID) (*domain.DebtorStatistics, bool) {
	var stats domain.DebtorStatistics
	if !c.get(ctx, debtorStatsKey(storeID), &stats) {
		return nil, false
	}
	return &stats, true
}

func (c *redisStatsCache) SetDebtorStatistics(ctx context.Context, storeID uuid.UUID, stats *domain.DebtorStatistics) {
	c.set(ctx, debtorStatsKey(storeID), stats)
}

func (c *redisStatsCache) GetDashboard(ctx context.Context, storeID uuid.UUID) (*domain.DashboardSummary, bool) {
	var summary domain.DashboardSummary
	if !c.get(ctx, dashboardKey(storeID), &summary) {
		return nil, false
	}
	return &summary, true
}

func (c *redisStatsCache) SetDashboard(ctx context.Context, storeID uuid.UUID, summary *domain.DashboardSummary) {
	c.set(ctx, dashboardKey(storeID), summary)
}

func (c *redisStatsCache) Invalidate(ctx context.Context, storeID uuid.UUID) {
	if err := c.rdb.Del(ctx, debtorStatsKey(storeID), dashboardKey(storeID)).Err(); err != nil {
		c.log.WithError(err).WithField("store_id", storeID).Warn("stats cache invalidation failed")
	}
}

// Cache errors never fail the request; a miss is returned instead.
func (c *redisStatsCache) get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).WithField("key", key).Warn("stats cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("stats cache entry corrupt")
		return false
	}
	return true
}

func (c *redisStatsCache) set(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("stats cache marshal failed")
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("stats cache write failed")
	}
}
