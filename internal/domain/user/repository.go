package user

import (
	"context"
)

// Repository 用户仓储接口
// 实现在infrastructure/persistence层
type Repository interface {
	// Create 创建用户
	// 用户名已存在时返回ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 不存在返回ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// List 分页查询用户
	List(ctx context.Context, page, pageSize int) ([]*User, int64, error)

	// Count 用户总数（启动时判断是否需要创建管理员）
	Count(ctx context.Context) (int64, error)
}
