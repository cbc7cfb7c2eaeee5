// Package cache хранит готовые отчёты аналитики в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmeshcher/clubsite-analytics/internal/model"
)

const keyPrefix = "clubsite:analytics"

// Key описывает все входные данные, от которых зависит отчёт.
type Key struct {
	Seed              int64
	Days              int
	PrepaymentPercent int
	Reference         time.Time
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d:%d:%d:%s", keyPrefix, k.Seed, k.Days, k.PrepaymentPercent, k.Reference.Format("2006-01-02"))
}

// ReportCache кэширует отчёты в Redis.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache создаёт кэш поверх клиента Redis. Записи живут ttl.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{
		client: client,
		ttl:    ttl,
	}
}

// NewRedisClient подключается к Redis по адресу addr и проверяет соединение.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get возвращает отчёт из кэша. Второе значение false означает промах.
func (c *ReportCache) Get(ctx context.Context, key Key) (*model.Report, bool, error) {
	data, err := c.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false, fmt.Errorf("decode cached report: %w", err)
	}
	return &report, true, nil
}

// Set сохраняет отчёт в кэш.
func (c *ReportCache) Set(ctx context.Context, key Key, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := c.client.Set(ctx, key.String(), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (c *ReportCache) Close() error {
	return c.client.Close()
}
