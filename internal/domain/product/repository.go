package product

import (
	"context"
)

// Repository 商品仓储接口
// 设计说明：
// 1. Update不写quantity列，库存变更统一走inventory.StockRepository
// 2. FindByID返回ErrProductNotFound（已软删除的商品同样视为不存在）
type Repository interface {
	// Create 创建商品，零件号重复返回ErrPartNumberConflict
	Create(ctx context.Context, p *Product) error

	FindByID(ctx context.Context, id uint) (*Product, error)

	// FindByPartNumber 根据零件号查找商品
	FindByPartNumber(ctx context.Context, partNumber string) (*Product, error)

	// Update 更新商品目录属性（不含库存数量）
	Update(ctx context.Context, p *Product) error

	// Delete 删除商品（软删除）
	Delete(ctx context.Context, id uint) error

	// List 分页查询商品列表
	List(ctx context.Context, params ListParams) ([]*Product, int64, error)

	// CountBySite 统计引用该存储点的商品数
	CountBySite(ctx context.Context, siteID uint) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int
	PageSize int
	Keyword  string // 匹配名称、零件号
	Type     Type
	Location Location
}
