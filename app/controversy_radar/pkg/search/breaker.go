package search

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// breakerSearcher 在上游连续失败时熔断，避免对已经不可用的搜索服务持续发请求
type breakerSearcher struct {
	next Searcher
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker 为任意 Searcher 增加熔断
func WithBreaker(next Searcher, name string) Searcher {
	st := gobreaker.Settings{
		Name:     name,
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &breakerSearcher{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *breakerSearcher) Search(ctx context.Context, req *Request) (*Response, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Search(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*Response), nil
}
