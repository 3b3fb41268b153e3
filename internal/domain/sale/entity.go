package sale

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/inventory-pos/internal/domain/product"
)

// Sale 销售单（聚合根）
// 只有两种状态：不存在、已提交。创建后不可修改
type Sale struct {
	ID        uint
	SaleNo    string
	UserID    *uint // 收银员
	Total     decimal.Decimal
	Customer  Customer
	Items     []Item
	CreatedAt time.Time
}

// Customer 顾客信息（均可为空）
type Customer struct {
	Name   string
	Email  string
	Number string
}

// Item 销售明细
// Price是成交时的单价快照，不随目录价变化
type Item struct {
	ID          uint
	SaleID      uint
	ProductID   uint
	ProductName string // 仅查询时填充
	Quantity    decimal.Decimal
	Price       decimal.Decimal
}

// Subtotal 明细小计
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(i.Quantity)
}

// NewSale 创建销售单并计算总额
func NewSale(saleNo string, userID *uint, customer Customer, items []Item) (*Sale, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for _, item := range items {
		if err := validateLine(item.ProductID, item.Quantity, item.Price); err != nil {
			return nil, err
		}
		total = total.Add(item.Subtotal())
	}

	return &Sale{
		SaleNo:    saleNo,
		UserID:    userID,
		Total:     total,
		Customer:  customer,
		Items:     items,
		CreatedAt: time.Now(),
	}, nil
}

// ItemCount 商品总件数
func (s *Sale) ItemCount() decimal.Decimal {
	n := decimal.Zero
	for _, item := range s.Items {
		n = n.Add(item.Quantity)
	}
	return n
}

// QuantitiesByProduct 按商品合并数量（同一商品可出现在多行）
func (s *Sale) QuantitiesByProduct() map[uint]decimal.Decimal {
	return SumByProduct(s.Items)
}

// SumByProduct 按商品合并数量
func SumByProduct(items []Item) map[uint]decimal.Decimal {
	m := make(map[uint]decimal.Decimal, len(items))
	for _, item := range items {
		m[item.ProductID] = m[item.ProductID].Add(item.Quantity)
	}
	return m
}

func validateLine(productID uint, qty, price decimal.Decimal) error {
	if productID == 0 {
		return ErrProductRequired
	}
	if !qty.IsPositive() || !product.FitsScale(qty, product.QuantityScale) {
		return ErrInvalidQuantity
	}
	if price.IsNegative() || !product.FitsScale(price, product.MoneyScale) {
		return ErrInvalidPrice
	}
	return nil
}
