package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/inventory-pos/internal/domain/report"
)

type reportRepository struct {
	store *Store
}

// NewReportRepository 创建报表仓储
func NewReportRepository(store *Store) report.Repository {
	return &reportRepository{store: store}
}

func (r *reportRepository) Summary(ctx context.Context, rng report.Range) (report.Summary, error) {
	var (
		count     int64
		revenue   = decimal.Zero
		itemsSold = decimal.Zero
	)
	err := r.store.read(ctx, func(st *state) error {
		for i := range st.sales {
			s := &st.sales[i]
			if !rng.Contains(s.CreatedAt) {
				continue
			}
			count++
			revenue = revenue.Add(s.Total)
			itemsSold = itemsSold.Add(s.ItemCount())
		}
		return nil
	})
	return report.NewSummary(count, revenue, itemsSold), err
}

func (r *reportRepository) Bestsellers(ctx context.Context, rng report.Range, limit int) ([]report.Bestseller, error) {
	var out []report.Bestseller
	err := r.store.read(ctx, func(st *state) error {
		byProduct := make(map[uint]*report.Bestseller)
		for i := range st.sales {
			s := &st.sales[i]
			if !rng.Contains(s.CreatedAt) {
				continue
			}
			for _, item := range s.Items {
				b, ok := byProduct[item.ProductID]
				if !ok {
					p := st.products[item.ProductID]
					b = &report.Bestseller{
						ProductID:   item.ProductID,
						ProductName: p.Name,
						PartNumber:  p.PartNumber,
						Quantity:    decimal.Zero,
						Revenue:     decimal.Zero,
					}
					byProduct[item.ProductID] = b
				}
				b.Quantity = b.Quantity.Add(item.Quantity)
				b.Revenue = b.Revenue.Add(item.Subtotal())
			}
		}

		for _, b := range byProduct {
			out = append(out, *b)
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].Quantity.Equal(out[j].Quantity) {
				return out[i].Quantity.GreaterThan(out[j].Quantity)
			}
			if !out[i].Revenue.Equal(out[j].Revenue) {
				return out[i].Revenue.GreaterThan(out[j].Revenue)
			}
			return out[i].ProductID < out[j].ProductID
		})
		if len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (r *reportRepository) SalePoints(ctx context.Context, rng report.Range) ([]report.SalePoint, error) {
	var out []report.SalePoint
	err := r.store.read(ctx, func(st *state) error {
		for i := range st.sales {
			if rng.Contains(st.sales[i].CreatedAt) {
				out = append(out, report.SalePoint{CreatedAt: st.sales[i].CreatedAt, Total: st.sales[i].Total})
			}
		}
		return nil
	})
	return out, err
}
