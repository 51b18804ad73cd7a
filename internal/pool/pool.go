// Package pool 提供 rageval 的并行执行封装
//
// 本包封装 toolkit/util/poolx，为引擎的逐问题评估提供保序的并行 Map：
// 结果按输入顺序返回，聚合阶段因此可以做到与串行执行逐字节一致。
package pool

import (
	"context"
	"runtime"

	"github.com/everyday-items/toolkit/util/poolx"
)

// BatchConfig 批量执行配置
type BatchConfig struct {
	// MaxConcurrency 最大并发数（0 表示使用 CPU 核心数）
	MaxConcurrency int
}

// BatchOption 批量执行选项
type BatchOption func(*BatchConfig)

// WithMaxConcurrency 设置最大并发数
func WithMaxConcurrency(n int) BatchOption {
	return func(c *BatchConfig) {
		c.MaxConcurrency = n
	}
}

// Map 并行 Map 操作，结果保持输入顺序
func Map[T, R any](ctx context.Context, items []T, fn func(T) (R, error), opts ...BatchOption) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	config := &BatchConfig{}
	for _, opt := range opts {
		opt(config)
	}

	maxConcurrency := config.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.NumCPU()
	}

	// 单个输入直接执行
	if len(items) == 1 {
		result, err := fn(items[0])
		if err != nil {
			return nil, err
		}
		return []R{result}, nil
	}

	return poolx.Map(ctx, items, maxConcurrency, fn)
}

// ForEach 并行 ForEach 操作
func ForEach[T any](ctx context.Context, items []T, fn func(T) error, opts ...BatchOption) error {
	if len(items) == 0 {
		return nil
	}

	config := &BatchConfig{}
	for _, opt := range opts {
		opt(config)
	}

	maxConcurrency := config.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.NumCPU()
	}

	return poolx.ForEach(ctx, items, maxConcurrency, fn)
}
