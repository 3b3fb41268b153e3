package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Summary 销售汇总
type Summary struct {
	SaleCount     int64           `json:"sale_count"`
	Revenue       decimal.Decimal `json:"revenue"`
	ItemsSold     decimal.Decimal `json:"items_sold"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

// NewSummary 由聚合结果计算客单价
func NewSummary(count int64, revenue, itemsSold decimal.Decimal) Summary {
	avg := decimal.Zero
	if count > 0 {
		avg = revenue.Div(decimal.NewFromInt(count)).Round(2)
	}
	return Summary{
		SaleCount:     count,
		Revenue:       revenue,
		ItemsSold:     itemsSold,
		AverageTicket: avg,
	}
}

// Bestseller 畅销商品
type Bestseller struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	PartNumber  string          `json:"part_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalePoint 单笔销售（时间序列原始数据）
type SalePoint struct {
	CreatedAt time.Time
	Total     decimal.Decimal
}

// Repository 报表查询（只读）
type Repository interface {
	// Summary 区间内的销售汇总
	Summary(ctx context.Context, r Range) (Summary, error)

	// Bestsellers 按销量降序（销量相同按销售额降序）取前limit个
	Bestsellers(ctx context.Context, r Range, limit int) ([]Bestseller, error)

	// SalePoints 区间内每笔销售的时间与金额
	SalePoints(ctx context.Context, r Range) ([]SalePoint, error)
}

const (
	DefaultBestsellerLimit = 10
	MaxBestsellerLimit     = 100
)

// ClampBestsellerLimit 取值范围[1, 100]，默认10
func ClampBestsellerLimit(limit int) int {
	if limit <= 0 {
		return DefaultBestsellerLimit
	}
	if limit > MaxBestsellerLimit {
		return MaxBestsellerLimit
	}
	return limit
}
