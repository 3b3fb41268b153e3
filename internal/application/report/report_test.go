package report

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/domain/report"
	"github.com/xiebiao/inventory-pos/internal/domain/sale"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/persistence/memory"
)

type fixture struct {
	uc       *UseCase
	cache    *memory.ReportCache
	products product.Repository
	sales    sale.Repository
	seq      int
}

func newFixture(t *testing.T, loc *time.Location) *fixture {
	t.Helper()

	store := memory.NewStore()
	cache := memory.NewReportCache(time.Minute)
	uc := NewUseCase(memory.NewReportRepository(store), memory.NewStockRepository(store), cache, loc, zap.NewNop())
	uc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	return &fixture{
		uc:       uc,
		cache:    cache,
		products: memory.NewProductRepository(store),
		sales:    memory.NewSaleRepository(store),
	}
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func (f *fixture) newProduct(t *testing.T, name string, price int64) *product.Product {
	t.Helper()
	f.seq++
	p, err := product.NewProduct(name, "", fmt.Sprintf("PN-%03d", f.seq),
		product.TypeMerchandise, product.LocationStore, dec(price), dec(2), decimal.Zero, nil)
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

// newSale 直接写入销售单（不扣库存），用于构造报表数据
func (f *fixture) newSale(t *testing.T, at time.Time, items ...sale.Item) {
	t.Helper()
	f.seq++
	s, err := sale.NewSale(fmt.Sprintf("S-%03d", f.seq), nil, sale.Customer{}, items)
	require.NoError(t, err)
	s.CreatedAt = at
	require.NoError(t, f.sales.Create(context.Background(), s))
}

func line(p *product.Product, qty int64) sale.Item {
	return sale.Item{ProductID: p.ID, Quantity: dec(qty), Price: p.Value}
}

// seed 三笔区间内销售 + 一笔区间外销售
//
//	03-01 10:00 扳手x2 + 胶带x1 = 25
//	03-01 15:00 胶带x3         = 15
//	03-03 09:00 扳手x1         = 10
//	02-28 (区间外) 胶带x10
func (f *fixture) seed(t *testing.T) (wrench, tape *product.Product) {
	wrench = f.newProduct(t, "扳手", 10)
	tape = f.newProduct(t, "胶带", 5)

	f.newSale(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), line(wrench, 2), line(tape, 1))
	f.newSale(t, time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC), line(tape, 3))
	f.newSale(t, time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC), line(wrench, 1))
	f.newSale(t, time.Date(2024, 2, 28, 23, 0, 0, 0, time.UTC), line(tape, 10))
	return wrench, tape
}

var march = RangeRequest{From: "2024-03-01", To: "2024-03-03"}

func TestSummary(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.seed(t)

	resp, err := f.uc.Summary(context.Background(), march)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), resp.From)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), resp.To)
	assert.Equal(t, int64(3), resp.Data.SaleCount)
	assert.True(t, resp.Data.Revenue.Equal(dec(50)), "revenue=%s", resp.Data.Revenue)
	assert.True(t, resp.Data.ItemsSold.Equal(dec(7)))
	assert.Equal(t, "16.67", resp.Data.AverageTicket.StringFixed(2))
}

func TestSummary_EmptyRange(t *testing.T) {
	f := newFixture(t, time.UTC)

	resp, err := f.uc.Summary(context.Background(), march)
	require.NoError(t, err)
	assert.Zero(t, resp.Data.SaleCount)
	assert.True(t, resp.Data.AverageTicket.IsZero())
}

func TestBestsellers(t *testing.T) {
	f := newFixture(t, time.UTC)
	wrench, tape := f.seed(t)
	ctx := context.Background()

	list, err := f.uc.Bestsellers(ctx, march, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// 胶带销量4 > 扳手销量3，尽管扳手销售额更高
	assert.Equal(t, tape.ID, list[0].ProductID)
	assert.True(t, list[0].Quantity.Equal(dec(4)))
	assert.True(t, list[0].Revenue.Equal(dec(20)))
	assert.Equal(t, wrench.ID, list[1].ProductID)
	assert.Equal(t, "扳手", list[1].ProductName)

	top, err := f.uc.Bestsellers(ctx, march, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, tape.ID, top[0].ProductID)
}

func TestBestsellers_NoSalesIsEmptyList(t *testing.T) {
	f := newFixture(t, time.UTC)

	list, err := f.uc.Bestsellers(context.Background(), march, 5)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestTimeSeries(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.seed(t)
	ctx := context.Background()

	t.Run("按日含空桶", func(t *testing.T) {
		resp, err := f.uc.TimeSeries(ctx, march, "")
		require.NoError(t, err)
		assert.Equal(t, report.BucketDay, resp.Bucket)
		require.Len(t, resp.Points, 3)

		assert.Equal(t, "2024-03-01", resp.Points[0].Bucket)
		assert.Equal(t, int64(2), resp.Points[0].SaleCount)
		assert.True(t, resp.Points[0].Revenue.Equal(dec(40)))

		assert.Equal(t, "2024-03-02", resp.Points[1].Bucket)
		assert.Zero(t, resp.Points[1].SaleCount)
		assert.True(t, resp.Points[1].Revenue.IsZero())

		assert.Equal(t, "2024-03-03", resp.Points[2].Bucket)
		assert.True(t, resp.Points[2].Revenue.Equal(dec(10)))
	})

	t.Run("按月", func(t *testing.T) {
		resp, err := f.uc.TimeSeries(ctx, march, "month")
		require.NoError(t, err)
		require.Len(t, resp.Points, 1)
		assert.Equal(t, "2024-03", resp.Points[0].Bucket)
		assert.Equal(t, int64(3), resp.Points[0].SaleCount)
		assert.True(t, resp.Points[0].Revenue.Equal(dec(50)))
	})

	t.Run("无效粒度", func(t *testing.T) {
		_, err := f.uc.TimeSeries(ctx, march, "week")
		assert.ErrorIs(t, err, report.ErrInvalidBucket)
	})
}

func TestTimeSeries_ReportTimezone(t *testing.T) {
	cst := time.FixedZone("CST", 8*3600)
	f := newFixture(t, cst)
	p := f.newProduct(t, "扳手", 10)

	// UTC 02-29 17:00 是东八区 03-01 01:00；UTC 03-01 17:00 是东八区 03-02 01:00
	f.newSale(t, time.Date(2024, 2, 29, 17, 0, 0, 0, time.UTC), line(p, 1))
	f.newSale(t, time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC), line(p, 2))

	resp, err := f.uc.TimeSeries(context.Background(), RangeRequest{From: "2024-03-01", To: "2024-03-02"}, "day")
	require.NoError(t, err)
	require.Len(t, resp.Points, 2)
	assert.Equal(t, int64(1), resp.Points[0].SaleCount)
	assert.True(t, resp.Points[0].Revenue.Equal(dec(10)))
	assert.Equal(t, int64(1), resp.Points[1].SaleCount)
	assert.True(t, resp.Points[1].Revenue.Equal(dec(20)))
}

func TestInvalidRange(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	for name, req := range map[string]RangeRequest{
		"格式错误": {From: "2024/03/01"},
		"起止倒置": {From: "2024-03-05", To: "2024-03-01"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Summary(ctx, req)
			assert.ErrorIs(t, err, report.ErrInvalidRange)
		})
	}
}

func TestSummary_CachedUntilInvalidated(t *testing.T) {
	f := newFixture(t, time.UTC)
	wrench, _ := f.seed(t)
	ctx := context.Background()

	first, err := f.uc.Summary(ctx, march)
	require.NoError(t, err)
	require.Equal(t, int64(3), first.Data.SaleCount)

	f.newSale(t, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), line(wrench, 1))

	cached, err := f.uc.Summary(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cached.Data.SaleCount, "失效前应返回缓存结果")
	assert.True(t, cached.Data.Revenue.Equal(dec(50)))

	require.NoError(t, f.cache.Invalidate(ctx))

	fresh, err := f.uc.Summary(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, int64(4), fresh.Data.SaleCount)
	assert.True(t, fresh.Data.Revenue.Equal(dec(60)))
}

func TestLowStock(t *testing.T) {
	f := newFixture(t, time.UTC)
	p := f.newProduct(t, "扳手", 10)

	list, err := f.uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}

func TestExportSales(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.seed(t)

	export, err := f.uc.ExportSales(context.Background(), march)
	require.NoError(t, err)
	assert.Equal(t, "sales_20240301_20240303.xlsx", export.Filename)

	wb, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	assert.Equal(t, []string{sheetSummary, sheetDaily, sheetBestsellers}, wb.GetSheetList())

	summary, err := wb.GetRows(sheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 7)
	assert.Equal(t, []string{"from", "2024-03-01"}, summary[0])
	assert.Equal(t, []string{"to", "2024-03-03"}, summary[1])
	assert.Equal(t, []string{"sale_count", "3"}, summary[3])
	assert.Equal(t, []string{"revenue", "50"}, summary[4])

	daily, err := wb.GetRows(sheetDaily)
	require.NoError(t, err)
	require.Len(t, daily, 4)
	assert.Equal(t, []string{"date", "sale_count", "revenue"}, daily[0])
	assert.Equal(t, []string{"2024-03-01", "2", "40"}, daily[1])
	assert.Equal(t, []string{"2024-03-02", "0", "0"}, daily[2])

	best, err := wb.GetRows(sheetBestsellers)
	require.NoError(t, err)
	require.Len(t, best, 3)
	assert.Equal(t, "胶带", best[1][2])
}
