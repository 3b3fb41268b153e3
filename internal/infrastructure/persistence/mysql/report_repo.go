package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/inventory-pos/internal/domain/report"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// reportRepository 报表查询(MySQL)
// 只做SQL聚合，时间分桶在domain/report中按配置时区完成
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓储
func NewReportRepository(db *gorm.DB) report.Repository {
	return &reportRepository{db: db}
}

// Summary 销售汇总
func (r *reportRepository) Summary(ctx context.Context, rng report.Range) (report.Summary, error) {
	var sales struct {
		SaleCount int64
		Revenue   decimal.NullDecimal
	}
	err := r.inRange(ctx, rng, "sales").
		Table("sales").
		Select("COUNT(*) AS sale_count, SUM(total) AS revenue").
		Scan(&sales).Error
	if err != nil {
		return report.Summary{}, apperrors.Wrap(err, "查询销售汇总失败")
	}

	var items struct {
		ItemsSold decimal.NullDecimal
	}
	err = r.inRange(ctx, rng, "s").
		Table("sale_items AS i").
		Joins("JOIN sales s ON s.id = i.sale_id").
		Select("SUM(i.quantity) AS items_sold").
		Scan(&items).Error
	if err != nil {
		return report.Summary{}, apperrors.Wrap(err, "查询销售件数失败")
	}

	return report.NewSummary(sales.SaleCount, orZero(sales.Revenue), orZero(items.ItemsSold)), nil
}

// Bestsellers 畅销商品
func (r *reportRepository) Bestsellers(ctx context.Context, rng report.Range, limit int) ([]report.Bestseller, error) {
	var rows []report.Bestseller
	err := r.inRange(ctx, rng, "s").
		Table("sale_items AS i").
		Joins("JOIN sales s ON s.id = i.sale_id").
		Joins("JOIN products p ON p.id = i.product_id").
		Select(`i.product_id AS product_id,
			p.name AS product_name,
			p.part_number AS part_number,
			SUM(i.quantity) AS quantity,
			SUM(i.quantity * i.price) AS revenue`).
		Group("i.product_id, p.name, p.part_number").
		Order("quantity DESC").Order("revenue DESC").Order("i.product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询畅销商品失败")
	}
	return rows, nil
}

// SalePoints 区间内每笔销售
func (r *reportRepository) SalePoints(ctx context.Context, rng report.Range) ([]report.SalePoint, error) {
	var rows []report.SalePoint
	err := r.inRange(ctx, rng, "sales").
		Table("sales").
		Select("created_at, total").
		Order("created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询销售明细失败")
	}
	return rows, nil
}

// inRange [From, To)，时间统一转UTC比较
func (r *reportRepository) inRange(ctx context.Context, rng report.Range, table string) *gorm.DB {
	return getDB(ctx, r.db).
		Where(table+".created_at >= ? AND "+table+".created_at < ?", rng.From.UTC(), rng.To.UTC())
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
