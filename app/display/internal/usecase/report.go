package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
	"github.com/iWorld-y/controversy_radar/app/display/internal/domain"
	"github.com/iWorld-y/controversy_radar/app/display/internal/repo"
)

// ReportUseCase 周报业务逻辑
type ReportUseCase struct {
	repo repo.ReportRepo
	log  *log.Helper
}

// NewReportUseCase 创建周报业务逻辑实例
func NewReportUseCase(repo repo.ReportRepo, logger log.Logger) *ReportUseCase {
	return &ReportUseCase{repo: repo, log: log.NewHelper(logger)}
}

// List 分页列出周期键
func (uc *ReportUseCase) List(ctx context.Context, page, pageSize int) (*domain.ReportList, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	keys, err := uc.repo.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	total := len(keys)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return &domain.ReportList{Keys: keys[start:end], Total: total}, nil
}

// Get 根据周期键获取完整周报
func (uc *ReportUseCase) Get(ctx context.Context, key string) (*model.Report, error) {
	if key == "" {
		return nil, errors.BadRequest("INVALID_KEY", "period key is required")
	}
	return uc.repo.GetReport(ctx, key)
}

// Summary 根据周期键获取周报摘要
func (uc *ReportUseCase) Summary(ctx context.Context, key string) (*domain.ReportSummary, error) {
	r, err := uc.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return domain.Summarize(key, r), nil
}
