package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/domain/report"
)

// Cache 报表结果缓存（redis.ReportCache / memory.ReportCache）
type Cache interface {
	Get(ctx context.Context, name string, dest interface{}) (bool, error)
	Set(ctx context.Context, name string, value interface{}) error
}

// UseCase 报表用例
// 汇总、畅销、时间序列结果经过缓存；低库存直接读库
type UseCase struct {
	reportRepo report.Repository
	stockRepo  inventory.StockRepository
	cache      Cache
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

// NewUseCase 创建报表用例，loc为日期解析与分桶使用的时区
func NewUseCase(
	reportRepo report.Repository,
	stockRepo inventory.StockRepository,
	cache Cache,
	loc *time.Location,
	logger *zap.Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		reportRepo: reportRepo,
		stockRepo:  stockRepo,
		cache:      cache,
		loc:        loc,
		now:        time.Now,
		logger:     logger,
	}
}

// RangeRequest 日期区间参数（YYYY-MM-DD，可为空）
type RangeRequest struct {
	From string
	To   string
}

// SummaryResponse 销售汇总
type SummaryResponse struct {
	From time.Time      `json:"from"`
	To   time.Time      `json:"to"`
	Data report.Summary `json:"summary"`
}

// TimeSeriesResponse 销售时间序列
type TimeSeriesResponse struct {
	From   time.Time      `json:"from"`
	To     time.Time      `json:"to"`
	Bucket report.Bucket  `json:"bucket"`
	Points []report.Point `json:"points"`
}

func (uc *UseCase) parseRange(req RangeRequest) (report.Range, error) {
	return report.ParseRange(req.From, req.To, uc.loc, uc.now())
}

// Summary 区间销售汇总
func (uc *UseCase) Summary(ctx context.Context, req RangeRequest) (*SummaryResponse, error) {
	rng, err := uc.parseRange(req)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc, "summary:"+rangeKey(rng), func() (*SummaryResponse, error) {
		s, err := uc.reportRepo.Summary(ctx, rng)
		if err != nil {
			return nil, err
		}
		return &SummaryResponse{From: rng.From, To: rng.To, Data: s}, nil
	})
}

// Bestsellers 区间畅销商品
func (uc *UseCase) Bestsellers(ctx context.Context, req RangeRequest, limit int) ([]report.Bestseller, error) {
	rng, err := uc.parseRange(req)
	if err != nil {
		return nil, err
	}
	limit = report.ClampBestsellerLimit(limit)

	name := fmt.Sprintf("bestsellers:%s:%d", rangeKey(rng), limit)
	return cached(ctx, uc, name, func() ([]report.Bestseller, error) {
		list, err := uc.reportRepo.Bestsellers(ctx, rng, limit)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []report.Bestseller{}
		}
		return list, nil
	})
}

// TimeSeries 按日或按月汇总销售额
func (uc *UseCase) TimeSeries(ctx context.Context, req RangeRequest, bucket string) (*TimeSeriesResponse, error) {
	rng, err := uc.parseRange(req)
	if err != nil {
		return nil, err
	}
	b, err := report.ParseBucket(bucket)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("timeseries:%s:%s", rangeKey(rng), b)
	return cached(ctx, uc, name, func() (*TimeSeriesResponse, error) {
		points, err := uc.reportRepo.SalePoints(ctx, rng)
		if err != nil {
			return nil, err
		}
		return &TimeSeriesResponse{
			From:   rng.From,
			To:     rng.To,
			Bucket: b,
			Points: report.BuildTimeSeries(points, rng, b, uc.loc),
		}, nil
	})
}

// LowStock 低库存商品，与库存预警相同
func (uc *UseCase) LowStock(ctx context.Context) ([]*product.Product, error) {
	return uc.stockRepo.LowStock(ctx)
}

// cached 先读缓存，未命中时加载并写回
// 缓存读写失败只记录日志，不影响结果
func cached[T any](ctx context.Context, uc *UseCase, name string, load func() (T, error)) (T, error) {
	var v T
	if uc.cache != nil {
		hit, err := uc.cache.Get(ctx, name, &v)
		if err != nil {
			uc.logger.Warn("读取报表缓存失败", zap.String("key", name), zap.Error(err))
		} else if hit {
			return v, nil
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, name, v); err != nil {
			uc.logger.Warn("写入报表缓存失败", zap.String("key", name), zap.Error(err))
		}
	}
	return v, nil
}

func rangeKey(r report.Range) string {
	return fmt.Sprintf("%d-%d", r.From.Unix(), r.To.Unix())
}
