package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/inventory-pos/internal/domain/product"
)

// StockRepository 商品库存数量的唯一写入口
// 设计说明：
// 1. products.quantity只能通过这里的方法修改
// 2. LockProduct必须在事务中调用（SELECT ... FOR UPDATE）
// 3. 所有写操作都是原子表达式（quantity = quantity ± ?），不做读后写
type StockRepository interface {
	// LockProduct 锁定商品行直到事务结束
	LockProduct(ctx context.Context, productID uint) (*product.Product, error)

	// IncreaseQuantity quantity = quantity + qty
	IncreaseQuantity(ctx context.Context, productID uint, qty decimal.Decimal) error

	// DecreaseQuantity quantity = quantity - qty WHERE quantity >= qty
	// 条件不满足返回ErrInsufficientStock
	DecreaseQuantity(ctx context.Context, productID uint, qty decimal.Decimal) error

	// MoveToSite 更新商品当前存储点（调用方须已在事务内锁定该商品）
	MoveToSite(ctx context.Context, productID, siteID uint) error

	// LowStock quantity <= min_quantity，按库存升序
	LowStock(ctx context.Context) ([]*product.Product, error)

	// Overstock max_quantity > 0 AND quantity > max_quantity，按超出量降序
	Overstock(ctx context.Context) ([]*product.Product, error)
}

// LedgerRepository 库存流水仓储（只追加）
type LedgerRepository interface {
	// Append 追加流水，回填ID与创建时间
	Append(ctx context.Context, txs ...*Transaction) error

	// ListByProduct 最近limit条流水，created_at DESC, id DESC
	ListByProduct(ctx context.Context, productID uint, limit int) ([]*TransactionView, error)

	// SignedSum 流水带符号合计
	SignedSum(ctx context.Context, productID uint) (decimal.Decimal, error)
}
