package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type cacheEntry struct {
	data     []byte
	expireAt time.Time
}

// ReportCache 内存报表缓存，与redis.ReportCache方法一致
// 值以JSON保存，读取时与Redis实现得到相同的反序列化结果
type ReportCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	version int64
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewReportCache 创建内存报表缓存，ttl<=0时不缓存
func NewReportCache(ttl time.Duration) *ReportCache {
	return &ReportCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *ReportCache) Get(_ context.Context, name string, dest interface{}) (bool, error) {
	if c.ttl <= 0 {
		return false, nil
	}

	c.mu.Lock()
	entry, ok := c.entries[c.key(name)]
	c.mu.Unlock()

	if !ok || !c.now().Before(entry.expireAt) {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("解析报表缓存失败: %w", err)
	}
	return true, nil
}

func (c *ReportCache) Set(_ context.Context, name string, value interface{}) error {
	if c.ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化报表缓存失败: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(name)] = cacheEntry{data: data, expireAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate 递增版本并清空旧条目
func (c *ReportCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.entries = make(map[string]cacheEntry)
	return nil
}

func (c *ReportCache) key(name string) string {
	return fmt.Sprintf("report:v%d:%s", c.version, name)
}
