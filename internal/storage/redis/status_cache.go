package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taoyao-code/bau-server/internal/protocol/ebds"
)

// ErrStatusNotCached 缓存中没有该接收器的状态
var ErrStatusNotCached = errors.New("status not cached")

// StatusCache 接收器最新状态的 Redis 缓存。
// 轮询协程每次状态变化后写入，HTTP 查询优先走缓存。
type StatusCache struct {
	client *Client
	ttl    time.Duration
}

// NewStatusCache 创建状态缓存
func NewStatusCache(client *Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatusCache{client: client, ttl: ttl}
}

func statusKey(acceptorID int64) string {
	return fmt.Sprintf("bau:acceptor:%d:status", acceptorID)
}

// Set 写入接收器最新状态视图
func (c *StatusCache) Set(ctx context.Context, acceptorID int64, view ebds.StatusView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	return c.client.Set(ctx, statusKey(acceptorID), payload, c.ttl).Err()
}

// Get 读取接收器最新状态视图
func (c *StatusCache) Get(ctx context.Context, acceptorID int64) (ebds.StatusView, error) {
	payload, err := c.client.Get(ctx, statusKey(acceptorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ebds.StatusView{}, ErrStatusNotCached
	}
	if err != nil {
		return ebds.StatusView{}, err
	}
	var view ebds.StatusView
	if err := json.Unmarshal(payload, &view); err != nil {
		return ebds.StatusView{}, fmt.Errorf("unmarshal status: %w", err)
	}
	return view, nil
}
