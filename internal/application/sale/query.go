package sale

import (
	"context"

	"github.com/xiebiao/inventory-pos/internal/domain/sale"
)

// QueryUseCase 销售单查询
type QueryUseCase struct {
	saleRepo sale.Repository
}

// NewQueryUseCase 创建销售单查询用例
func NewQueryUseCase(saleRepo sale.Repository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo}
}

// Get 查询销售单及明细
func (uc *QueryUseCase) Get(ctx context.Context, id uint) (*sale.Sale, error) {
	return uc.saleRepo.FindByID(ctx, id)
}

// List 分页查询销售单
func (uc *QueryUseCase) List(ctx context.Context, params sale.ListParams) ([]*sale.Sale, int64, error) {
	return uc.saleRepo.List(ctx, params)
}
