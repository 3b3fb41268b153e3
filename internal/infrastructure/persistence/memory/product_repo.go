package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
)

type productRepository struct {
	store *Store
}

// NewProductRepository 创建商品仓储
func NewProductRepository(store *Store) product.Repository {
	return &productRepository{store: store}
}

func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	return r.store.write(ctx, func(st *state) error {
		// 与唯一索引一致：已软删除的商品同样占用零件号
		for _, row := range st.products {
			if row.PartNumber == p.PartNumber {
				return product.ErrPartNumberConflict
			}
		}

		now := time.Now()
		row := productRow{Product: *p}
		row.ID = st.id("products")
		row.Quantity = decimal.Zero
		row.CreatedAt, row.UpdatedAt = now, now
		st.products[row.ID] = row

		p.ID = row.ID
		p.Quantity = row.Quantity
		p.CreatedAt, p.UpdatedAt = now, now
		return nil
	})
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var out *product.Product
	err := r.store.read(ctx, func(st *state) error {
		row, ok := st.products[id]
		if !ok || row.deleted {
			return product.ErrProductNotFound
		}
		p := row.Product
		out = &p
		return nil
	})
	return out, err
}

func (r *productRepository) FindByPartNumber(ctx context.Context, partNumber string) (*product.Product, error) {
	var out *product.Product
	err := r.store.read(ctx, func(st *state) error {
		for _, row := range st.products {
			if !row.deleted && row.PartNumber == partNumber {
				p := row.Product
				out = &p
				return nil
			}
		}
		return product.ErrProductNotFound
	})
	return out, err
}

// Update 只更新目录属性，库存数量保持不变
func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	return r.store.write(ctx, func(st *state) error {
		row, ok := st.products[p.ID]
		if !ok || row.deleted {
			return product.ErrProductNotFound
		}
		for id, other := range st.products {
			if id != p.ID && other.PartNumber == p.PartNumber {
				return product.ErrPartNumberConflict
			}
		}

		quantity, createdAt := row.Quantity, row.CreatedAt
		row.Product = *p
		row.Quantity = quantity
		row.CreatedAt = createdAt
		row.UpdatedAt = time.Now()
		st.products[p.ID] = row

		p.Quantity = quantity
		p.UpdatedAt = row.UpdatedAt
		return nil
	})
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.store.write(ctx, func(st *state) error {
		row, ok := st.products[id]
		if !ok || row.deleted {
			return product.ErrProductNotFound
		}
		row.deleted = true
		st.products[id] = row
		return nil
	})
}

func (r *productRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	var (
		out   []*product.Product
		total int64
	)
	err := r.store.read(ctx, func(st *state) error {
		keyword := strings.ToLower(params.Keyword)
		var matched []*product.Product
		for _, row := range st.products {
			if row.deleted {
				continue
			}
			if params.Type != "" && row.Type != params.Type {
				continue
			}
			if params.Location != "" && row.Location != params.Location {
				continue
			}
			if keyword != "" &&
				!strings.Contains(strings.ToLower(row.Name), keyword) &&
				!strings.Contains(strings.ToLower(row.PartNumber), keyword) {
				continue
			}
			p := row.Product
			matched = append(matched, &p)
		}
		// 新建的在前
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

		total = int64(len(matched))
		out = paginate(matched, params.Page, params.PageSize)
		return nil
	})
	return out, total, err
}

func (r *productRepository) CountBySite(ctx context.Context, siteID uint) (int64, error) {
	var n int64
	err := r.store.read(ctx, func(st *state) error {
		for _, row := range st.products {
			if !row.deleted && row.StorageSiteID != nil && *row.StorageSiteID == siteID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// stockRepository 商品库存写入口
type stockRepository struct {
	store *Store
}

// NewStockRepository 创建库存仓储
func NewStockRepository(store *Store) inventory.StockRepository {
	return &stockRepository{store: store}
}

// LockProduct 事务持有全局锁，读取即锁定
func (r *stockRepository) LockProduct(ctx context.Context, productID uint) (*product.Product, error) {
	var out *product.Product
	err := r.store.read(ctx, func(st *state) error {
		row, ok := st.products[productID]
		if !ok || row.deleted {
			return product.ErrProductNotFound
		}
		p := row.Product
		out = &p
		return nil
	})
	return out, err
}

func (r *stockRepository) IncreaseQuantity(ctx context.Context, productID uint, qty decimal.Decimal) error {
	return r.store.write(ctx, func(st *state) error {
		row, ok := st.products[productID]
		if !ok || row.deleted {
			return product.ErrProductNotFound
		}
		row.Quantity = row.Quantity.Add(qty)
		st.products[productID] = row
		return nil
	})
}

func (r *stockRepository) DecreaseQuantity(ctx context.Context, productID uint, qty decimal.Decimal) error {
	return r.store.write(ctx, func(st *state) error {
		row, ok := st.products[productID]
		if !ok || row.deleted {
			return product.ErrProductNotFound
		}
		if row.Quantity.LessThan(qty) {
			return inventory.ErrInsufficientStock
		}
		row.Quantity = row.Quantity.Sub(qty)
		st.products[productID] = row
		return nil
	})
}

func (r *stockRepository) MoveToSite(ctx context.Context, productID, siteID uint) error {
	return r.store.write(ctx, func(st *state) error {
		row, ok := st.products[productID]
		if !ok || row.deleted {
			return product.ErrProductNotFound
		}
		id := siteID
		row.StorageSiteID = &id
		st.products[productID] = row
		return nil
	})
}

func (r *stockRepository) LowStock(ctx context.Context) ([]*product.Product, error) {
	return r.filter(ctx, (*product.Product).IsLowStock, func(a, b *product.Product) bool {
		if !a.Quantity.Equal(b.Quantity) {
			return a.Quantity.LessThan(b.Quantity)
		}
		return a.ID < b.ID
	})
}

func (r *stockRepository) Overstock(ctx context.Context) ([]*product.Product, error) {
	return r.filter(ctx, (*product.Product).IsOverstock, func(a, b *product.Product) bool {
		if !a.Excess().Equal(b.Excess()) {
			return a.Excess().GreaterThan(b.Excess())
		}
		return a.ID < b.ID
	})
}

func (r *stockRepository) filter(ctx context.Context, keep func(*product.Product) bool, less func(a, b *product.Product) bool) ([]*product.Product, error) {
	var out []*product.Product
	err := r.store.read(ctx, func(st *state) error {
		for _, row := range st.products {
			p := row.Product
			if !row.deleted && keep(&p) {
				out = append(out, &p)
			}
		}
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
		return nil
	})
	return out, err
}
