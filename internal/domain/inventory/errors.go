package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/inventory-pos/internal/domain/product"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// 库存领域错误定义
var (
	// ErrInsufficientStock 库存不足
	// 对外返回时通过NewInsufficientStockError附带Shortage
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	ErrProductRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "必须指定商品")
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0，最多3位小数")
	ErrZeroAdjustment  = apperrors.New(apperrors.ErrCodeInvalidParams, "调整数量不能为0")
	ErrReasonRequired  = apperrors.New(apperrors.ErrCodeInvalidParams, "调整原因不能为空")
	ErrSitesRequired   = apperrors.New(apperrors.ErrCodeInvalidParams, "调拨必须指定调出和调入存储点")
	ErrSameSite        = apperrors.New(apperrors.ErrCodeInvalidParams, "调出与调入存储点不能相同")
)

// Shortage 库存不足详情
type Shortage struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Requested   decimal.Decimal `json:"requested"`
	Available   decimal.Decimal `json:"available"`
}

// NewInsufficientStockError 构造带详情的库存不足错误
// errors.Is(err, ErrInsufficientStock)仍然成立
func NewInsufficientStockError(p *product.Product, requested decimal.Decimal) error {
	return ErrInsufficientStock.WithData(Shortage{
		ProductID:   p.ID,
		ProductName: p.Name,
		Requested:   requested,
		Available:   p.Quantity,
	})
}
