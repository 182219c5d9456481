package utils

import (
	"sync"
	"time"
)

// 进程内 TTL 缓存，向导会话独占使用
// 使用 sync.Map 保证并发安全；过期条目懒删除 + 定时任务兜底清扫

type cacheItem struct {
	value      interface{}
	expiration int64 // unix 秒
}

// TTLCache 带过期时间的内存缓存
type TTLCache struct {
	items sync.Map
	ttl   time.Duration
}

// NewTTLCache 创建缓存，ttl 为条目存活时间
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{ttl: ttl}
}

// Set 写入并刷新过期时间
func (c *TTLCache) Set(key string, value interface{}) {
	c.items.Store(key, cacheItem{
		value:      value,
		expiration: time.Now().Add(c.ttl).Unix(),
	})
}

// Get 读取并校验过期；过期条目懒删除
func (c *TTLCache) Get(key string) (interface{}, bool) {
	val, ok := c.items.Load(key)
	if !ok {
		return nil, false
	}

	item := val.(cacheItem)
	if time.Now().Unix() > item.expiration {
		c.items.Delete(key)
		return nil, false
	}

	return item.value, true
}

// Touch 只刷新过期时间，条目不存在时为空操作
func (c *TTLCache) Touch(key string) {
	if val, ok := c.items.Load(key); ok {
		item := val.(cacheItem)
		item.expiration = time.Now().Add(c.ttl).Unix()
		c.items.Store(key, item)
	}
}

// Delete 删除缓存 (用完即焚)
func (c *TTLCache) Delete(key string) {
	c.items.Delete(key)
}

// SweepExpired 清除所有过期条目，返回清除数量（由定时任务调用）
func (c *TTLCache) SweepExpired() int {
	now := time.Now().Unix()
	removed := 0
	c.items.Range(func(key, val interface{}) bool {
		if now > val.(cacheItem).expiration {
			c.items.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Len 当前条目数（含未清扫的过期条目）
func (c *TTLCache) Len() int {
	n := 0
	c.items.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
