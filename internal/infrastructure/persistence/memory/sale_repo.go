package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/inventory-pos/internal/domain/sale"
)

type saleRepository struct {
	store *Store
}

// NewSaleRepository 创建销售单仓储
func NewSaleRepository(store *Store) sale.Repository {
	return &saleRepository{store: store}
}

func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	return r.store.write(ctx, func(st *state) error {
		for i := range st.sales {
			if st.sales[i].SaleNo == s.SaleNo {
				return sale.ErrSaleNoDuplicate
			}
		}

		s.ID = st.id("sales")
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now()
		}
		for i := range s.Items {
			s.Items[i].ID = st.id("sale_items")
			s.Items[i].SaleID = s.ID
		}

		row := *s
		row.Items = append([]sale.Item(nil), s.Items...)
		st.sales = append(st.sales, row)
		return nil
	})
}

func (r *saleRepository) FindByID(ctx context.Context, id uint) (*sale.Sale, error) {
	var out *sale.Sale
	err := r.store.read(ctx, func(st *state) error {
		for i := range st.sales {
			if st.sales[i].ID != id {
				continue
			}
			s := st.sales[i]
			s.Items = append([]sale.Item(nil), s.Items...)
			for j := range s.Items {
				s.Items[j].ProductName = st.products[s.Items[j].ProductID].Name
			}
			out = &s
			return nil
		}
		return sale.ErrSaleNotFound
	})
	return out, err
}

func (r *saleRepository) List(ctx context.Context, params sale.ListParams) ([]*sale.Sale, int64, error) {
	var (
		out   []*sale.Sale
		total int64
	)
	err := r.store.read(ctx, func(st *state) error {
		var matched []*sale.Sale
		for i := range st.sales {
			s := st.sales[i]
			if params.From != nil && s.CreatedAt.Before(*params.From) {
				continue
			}
			if params.To != nil && !s.CreatedAt.Before(*params.To) {
				continue
			}
			if params.UserID != nil && (s.UserID == nil || *s.UserID != *params.UserID) {
				continue
			}
			s.Items = nil
			matched = append(matched, &s)
		}
		sort.Slice(matched, func(i, j int) bool {
			if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].CreatedAt.After(matched[j].CreatedAt)
			}
			return matched[i].ID > matched[j].ID
		})

		total = int64(len(matched))
		out = paginate(matched, params.Page, params.PageSize)
		return nil
	})
	return out, total, err
}
