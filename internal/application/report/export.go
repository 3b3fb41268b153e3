package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/inventory-pos/internal/domain/report"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

const (
	sheetSummary     = "Summary"
	sheetDaily       = "Daily"
	sheetBestsellers = "Bestsellers"
)

// Export 销售导出文件
type Export struct {
	Filename string
	Data     []byte
}

// ExportSales 导出区间销售为XLSX：汇总、按日明细、畅销商品三个工作表
func (uc *UseCase) ExportSales(ctx context.Context, req RangeRequest) (*Export, error) {
	rng, err := uc.parseRange(req)
	if err != nil {
		return nil, err
	}

	// 三个查询互不依赖，并发读取
	var (
		summary report.Summary
		points  []report.SalePoint
		best    []report.Bestseller
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary, err = uc.reportRepo.Summary(gctx, rng)
		return err
	})
	g.Go(func() (err error) {
		points, err = uc.reportRepo.SalePoints(gctx, rng)
		return err
	})
	g.Go(func() (err error) {
		best, err = uc.reportRepo.Bestsellers(gctx, rng, report.MaxBestsellerLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	daily := report.BuildTimeSeries(points, rng, report.BucketDay, uc.loc)

	data, err := uc.buildWorkbook(rng, summary, daily, best)
	if err != nil {
		uc.logger.Error("生成销售导出文件失败", zap.Error(err))
		return nil, apperrors.Wrap(err, "生成导出文件失败")
	}

	// 文件名中的结束日期为包含的最后一天
	last := rng.To.AddDate(0, 0, -1)
	return &Export{
		Filename: fmt.Sprintf("sales_%s_%s.xlsx", rng.From.Format("20060102"), last.Format("20060102")),
		Data:     data,
	}, nil
}

func (uc *UseCase) buildWorkbook(rng report.Range, summary report.Summary, daily []report.Point, best []report.Bestseller) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// 默认工作表改名为汇总表
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetSummary); err != nil {
		return nil, err
	}

	summaryRows := [][]interface{}{
		{"from", rng.From.Format(time.DateOnly)},
		{"to", rng.To.AddDate(0, 0, -1).Format(time.DateOnly)},
		{"timezone", uc.loc.String()},
		{"sale_count", summary.SaleCount},
		{"revenue", summary.Revenue.InexactFloat64()},
		{"items_sold", summary.ItemsSold.InexactFloat64()},
		{"average_ticket", summary.AverageTicket.InexactFloat64()},
	}
	if err := writeRows(f, sheetSummary, summaryRows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetDaily); err != nil {
		return nil, err
	}
	dailyRows := [][]interface{}{{"date", "sale_count", "revenue"}}
	for _, p := range daily {
		dailyRows = append(dailyRows, []interface{}{p.Bucket, p.SaleCount, p.Revenue.InexactFloat64()})
	}
	if err := writeRows(f, sheetDaily, dailyRows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetBestsellers); err != nil {
		return nil, err
	}
	bestRows := [][]interface{}{{"product_id", "part_number", "product_name", "quantity", "revenue"}}
	for _, b := range best {
		bestRows = append(bestRows, []interface{}{
			b.ProductID,
			b.PartNumber,
			b.ProductName,
			b.Quantity.InexactFloat64(),
			b.Revenue.InexactFloat64(),
		})
	}
	if err := writeRows(f, sheetBestsellers, bestRows); err != nil {
		return nil, err
	}

	if idx, err := f.GetSheetIndex(sheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}
