// Package cache 快取外部營養分析結果，鍵為食材內容的雜湊。
package cache

import (
	"context"
	"fmt"

	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

// Store 快取後端。未命中回傳 common.ErrCacheMiss，停用時回傳 common.ErrCacheDisabled。
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Key 以命名空間與內容雜湊生成快取鍵
func Key(namespace string, parts ...string) string {
	return fmt.Sprintf("%s:%s", namespace, common.HashStrings(parts...))
}

// NewStore 依設定建立快取後端
func NewStore(ctx context.Context, cfg *config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return disabled{}, nil
	}
	switch cfg.Backend {
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg)
	default:
		return NewManager(cfg), nil
	}
}

// disabled 快取關閉時的空實作
type disabled struct{}

func (disabled) Get(context.Context, string) (string, error) { return "", common.ErrCacheDisabled }
func (disabled) Set(context.Context, string, string) error { return nil }
func (disabled) Close() error { return nil }
