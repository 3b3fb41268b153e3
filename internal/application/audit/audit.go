package audit

import (
	"context"

	"github.com/xiebiao/inventory-pos/internal/domain/audit"
)

// QueryUseCase 审计日志查询（仅管理员）
type QueryUseCase struct {
	auditRepo audit.Repository
}

// NewQueryUseCase 创建审计日志查询用例
func NewQueryUseCase(auditRepo audit.Repository) *QueryUseCase {
	return &QueryUseCase{auditRepo: auditRepo}
}

// List 按时间倒序分页查询，可按操作人和动作过滤
func (uc *QueryUseCase) List(ctx context.Context, params audit.ListParams) ([]*audit.Entry, int64, error) {
	return uc.auditRepo.List(ctx, params)
}
