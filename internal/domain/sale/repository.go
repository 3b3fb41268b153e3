package sale

import (
	"context"
	"time"
)

// Repository 销售单仓储接口
type Repository interface {
	// Create 创建销售单及明细，回填ID
	Create(ctx context.Context, s *Sale) error

	// FindByID 查询销售单及明细（明细附带商品名称）
	FindByID(ctx context.Context, id uint) (*Sale, error)

	// List 分页查询（不加载明细），按创建时间倒序
	List(ctx context.Context, params ListParams) ([]*Sale, int64, error)
}

// ListParams 列表查询参数，时间区间为[From, To)
type ListParams struct {
	Page     int
	PageSize int
	From     *time.Time
	To       *time.Time
	UserID   *uint
}
