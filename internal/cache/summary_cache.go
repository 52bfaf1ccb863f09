package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"

	"github.com/redis/go-redis/v9"
)

// SummaryCache holds reconciled loan summaries per project. A summary is
// only valid for the calendar day it was computed on, since status depends
// on today.
type SummaryCache interface {
	Get(ctx context.Context, projectCode string, asOf time.Time) ([]*domain.LoanSummary, bool, error)
	Set(ctx context.Context, projectCode string, asOf time.Time, summaries []*domain.LoanSummary) error
	Invalidate(ctx context.Context, projectCode string) error
}

// Nop never hits. Used when redis is disabled.
type Nop struct{}

func (Nop) Get(context.Context, string, time.Time) ([]*domain.LoanSummary, bool, error) {
	return nil, false, nil
}

func (Nop) Set(context.Context, string, time.Time, []*domain.LoanSummary) error { return nil }

func (Nop) Invalidate(context.Context, string) error { return nil }

type cachedSummary struct {
	AsOf      string                `json:"as_of"`
	Summaries []*domain.LoanSummary `json:"summaries"`
}

type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func summaryKey(projectCode string) string {
	return "advance_summary:" + projectCode
}

func (c *RedisSummaryCache) Get(ctx context.Context, projectCode string, asOf time.Time) ([]*domain.LoanSummary, bool, error) {
	raw, err := c.client.Get(ctx, summaryKey(projectCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cached cachedSummary
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("decode cached summary: %w", err)
	}
	if cached.AsOf != asOf.Format("2006-01-02") {
		return nil, false, nil
	}
	return cached.Summaries, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, projectCode string, asOf time.Time, summaries []*domain.LoanSummary) error {
	raw, err := json.Marshal(cachedSummary{AsOf: asOf.Format("2006-01-02"), Summaries: summaries})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey(projectCode), raw, c.ttl).Err()
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, projectCode string) error {
	return c.client.Del(ctx, summaryKey(projectCode)).Err()
}
