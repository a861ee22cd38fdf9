package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/pkg/logger"
)

// BoardLoader 缓存未命中时回源
type BoardLoader func(ctx context.Context) ([]*model.Board, error)

// BoardCache 板块列表 cache-aside，key 为 boards:<college>:<type>
type BoardCache struct {
	rdb *redis.Client
	ttl time.Duration

	loads atomic.Int64
}

func NewBoardCache(rdb *redis.Client, ttl time.Duration) *BoardCache {
	return &BoardCache{rdb: rdb, ttl: ttl}
}

func boardKey(collegeID uint, boardType string) string {
	return fmt.Sprintf("boards:%d:%s", collegeID, boardType)
}

// Boards 命中则直接返回，否则调用 load 并回写。Redis 故障时退化为直接回源
func (c *BoardCache) Boards(ctx context.Context, collegeID uint, boardType string, load BoardLoader) ([]*model.Board, error) {
	key := boardKey(collegeID, boardType)
	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var out []*model.Board
		if uErr := json.Unmarshal(data, &out); uErr == nil {
			return out, nil
		}
	} else if err != redis.Nil {
		logger.Warn("board cache get", zap.String("key", key), zap.Error(err))
	}

	c.loads.Add(1)
	boards, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(boards); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			logger.Warn("board cache set", zap.String("key", key), zap.Error(err))
		}
	}
	return boards, nil
}

// Invalidate 删除某 college 的板块列表缓存
func (c *BoardCache) Invalidate(ctx context.Context, collegeID uint, boardType string) error {
	return c.rdb.Del(ctx, boardKey(collegeID, boardType)).Err()
}

// Loads 回源次数
func (c *BoardCache) Loads() int64 { return c.loads.Load() }
