package audit

import (
	"context"
	"encoding/json"
	"time"
)

// 审计动作
const (
	ActionLogin  = "user.login"
	ActionLogout = "user.logout"

	ActionUserCreate = "user.create"

	ActionProductCreate = "product.create"
	ActionProductUpdate = "product.update"
	ActionProductDelete = "product.delete"

	ActionSiteCreate = "site.create"
	ActionSiteUpdate = "site.update"
	ActionSiteDelete = "site.delete"

	ActionStockAdd      = "inventory.add"
	ActionStockRemove   = "inventory.remove"
	ActionStockTransfer = "inventory.transfer"
	ActionStockAdjust   = "inventory.adjust"

	ActionSaleCreate = "sale.create"
)

// Entry 审计日志（只追加，业务逻辑从不读取）
type Entry struct {
	ID        uint
	UserID    *uint
	Action    string
	Details   string // JSON文本
	CreatedAt time.Time
}

// NewEntry 创建审计日志，details序列化为JSON
func NewEntry(userID *uint, action string, details interface{}) (*Entry, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return &Entry{
		UserID:    userID,
		Action:    action,
		Details:   string(raw),
		CreatedAt: time.Now(),
	}, nil
}

// Repository 审计日志仓储接口
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	// List 按创建时间倒序分页
	List(ctx context.Context, params ListParams) ([]*Entry, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int
	PageSize int
	UserID   *uint
	Action   string
}

// Record 生成并写入一条审计日志
// 在事务ctx中调用时与业务数据一起提交或回滚
func Record(ctx context.Context, repo Repository, userID *uint, action string, details interface{}) error {
	entry, err := NewEntry(userID, action, details)
	if err != nil {
		return err
	}
	return repo.Append(ctx, entry)
}
