package repo

import (
	"context"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

// ReportRepo 周报仓库接口
type ReportRepo interface {
	// ListKeys 按保存时间倒序返回全部周期键
	ListKeys(ctx context.Context) ([]string, error)
	// GetReport 读取指定周期的周报，不存在时返回 NotFound 错误
	GetReport(ctx context.Context, key string) (*model.Report, error)
}
