package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/period"
	"github.com/iWorld-y/controversy_radar/app/display/internal/repo"
)

type reportRepo struct {
	data *Data
	log  *log.Helper
}

func NewReportRepo(data *Data, logger log.Logger) repo.ReportRepo {
	return &reportRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *reportRepo) ListKeys(ctx context.Context) ([]string, error) {
	keys, err := r.data.store.List(ctx)
	if err != nil {
		r.log.Errorf("list reports: %v", err)
		return nil, err
	}
	return keys, nil
}

func (r *reportRepo) GetReport(ctx context.Context, key string) (*model.Report, error) {
	if !period.ValidKey(key) {
		return nil, errors.BadRequest("INVALID_KEY", "invalid period key")
	}
	report, err := r.data.store.Load(ctx, key)
	if err != nil {
		r.log.Errorf("load report %s: %v", key, err)
		return nil, err
	}
	if report == nil {
		return nil, errors.NotFound("REPORT_NOT_FOUND", "report not found")
	}
	return report, nil
}
