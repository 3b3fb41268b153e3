package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const reportVersionKey = "report:version"

// ReportCache 报表结果缓存
// Key格式：report:v{version}:{name}
// 每次销售提交后Invalidate递增版本号，旧版本的Key随TTL自然过期
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache 创建报表缓存，ttl<=0时Get总是未命中、Set不写入
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Get 读取缓存，命中返回true
func (c *ReportCache) Get(ctx context.Context, name string, dest interface{}) (bool, error) {
	if c.ttl <= 0 {
		return false, nil
	}

	key, err := c.key(ctx, name)
	if err != nil {
		return false, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("读取报表缓存失败: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("解析报表缓存失败: %w", err)
	}
	return true, nil
}

// Set 写入缓存
func (c *ReportCache) Set(ctx context.Context, name string, value interface{}) error {
	if c.ttl <= 0 {
		return nil
	}

	key, err := c.key(ctx, name)
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化报表缓存失败: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("写入报表缓存失败: %w", err)
	}
	return nil
}

// Invalidate 使全部报表缓存失效
func (c *ReportCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, reportVersionKey).Err(); err != nil {
		return fmt.Errorf("刷新报表缓存版本失败: %w", err)
	}
	return nil
}

func (c *ReportCache) key(ctx context.Context, name string) (string, error) {
	version, err := c.client.Get(ctx, reportVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("读取报表缓存版本失败: %w", err)
	}
	return fmt.Sprintf("report:v%d:%s", version, name), nil
}
