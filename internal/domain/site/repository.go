package site

import (
	"context"
)

// Repository 存储点仓储接口
type Repository interface {
	// Create 名称重复返回ErrNameDuplicate
	Create(ctx context.Context, s *Site) error
	FindByID(ctx context.Context, id uint) (*Site, error)
	Update(ctx context.Context, s *Site) error
	// Delete 物理删除，调用方需先确认没有商品引用
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params ListParams) ([]*Site, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int
	PageSize int
	Active   *bool // nil表示不过滤
}
