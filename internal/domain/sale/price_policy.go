package sale

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/inventory-pos/internal/domain/product"
)

// PricePolicy 成交单价的信任策略
type PricePolicy string

const (
	// PricePolicyClient 采用收银端提交的单价，未提交时取目录价
	PricePolicyClient PricePolicy = "client"
	// PricePolicyCatalog 提交的单价必须等于目录价
	PricePolicyCatalog PricePolicy = "catalog"
)

// ParsePricePolicy 解析配置值，空字符串取client
func ParsePricePolicy(s string) (PricePolicy, error) {
	switch PricePolicy(s) {
	case "", PricePolicyClient:
		return PricePolicyClient, nil
	case PricePolicyCatalog:
		return PricePolicyCatalog, nil
	}
	return "", fmt.Errorf("无效的价格策略: %s", s)
}

// Resolve 根据策略确定成交单价
func (p PricePolicy) Resolve(supplied *decimal.Decimal, catalog decimal.Decimal) (decimal.Decimal, error) {
	if supplied == nil {
		return catalog, nil
	}
	if supplied.IsNegative() || !product.FitsScale(*supplied, product.MoneyScale) {
		return decimal.Zero, ErrInvalidPrice
	}
	if p == PricePolicyCatalog && !supplied.Equal(catalog) {
		return decimal.Zero, ErrPriceMismatch
	}
	return *supplied, nil
}
