// Package storage 按周期键持久化周报，为下一次运行提供上期数据。
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/period"
)

// ErrPersistence 状态存储读写失败，对本次运行是致命错误
var ErrPersistence = errors.New("persistence failure")

// Store 周报状态存储。
// Load 在键不存在时返回 (nil, nil)，首次运行属于正常情况。
type Store interface {
	Save(ctx context.Context, key string, report *model.Report) error
	Load(ctx context.Context, key string) (*model.Report, error)
	// List 返回已保存的周期键，最近保存的在前
	List(ctx context.Context) ([]string, error)
	Close() error
}

func validateKey(key string) error {
	if !period.ValidKey(key) {
		return fmt.Errorf("%w: invalid period key %q", ErrPersistence, key)
	}
	return nil
}

func wrap(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrPersistence, op, key, err)
}
