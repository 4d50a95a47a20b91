package service

import (
	"strconv"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/controversy_radar/app/display/internal/usecase"
)

// DisplayService 周报查询接口
type DisplayService struct {
	ucReport *usecase.ReportUseCase
	log      *log.Helper
}

func NewDisplayService(ucReport *usecase.ReportUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		ucReport: ucReport,
		log:      log.NewHelper(logger),
	}
}

// ListReports GET /api/reports?page=1&page_size=10
func (s *DisplayService) ListReports(ctx http.Context) error {
	q := ctx.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	list, err := s.ucReport.List(ctx, page, pageSize)
	if err != nil {
		return err
	}
	return ctx.Result(200, list)
}

// GetReport GET /api/reports/{key}
func (s *DisplayService) GetReport(ctx http.Context) error {
	report, err := s.ucReport.Get(ctx, ctx.Vars().Get("key"))
	if err != nil {
		return err
	}
	return ctx.Result(200, report)
}

// GetSummary GET /api/reports/{key}/summary
func (s *DisplayService) GetSummary(ctx http.Context) error {
	summary, err := s.ucReport.Summary(ctx, ctx.Vars().Get("key"))
	if err != nil {
		return err
	}
	return ctx.Result(200, summary)
}
