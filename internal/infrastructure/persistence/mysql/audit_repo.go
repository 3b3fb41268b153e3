package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository 创建审计日志仓储
func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &auditRepository{db: db}
}

// Append 写入审计日志（在调用方事务中）
func (r *auditRepository) Append(ctx context.Context, e *audit.Entry) error {
	model := &AuditLogModel{
		UserID:    e.UserID,
		Action:    e.Action,
		Details:   e.Details,
		CreatedAt: e.CreatedAt.UTC(),
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入审计日志失败")
	}
	e.ID = model.ID
	e.CreatedAt = model.CreatedAt
	return nil
}

func (r *auditRepository) List(ctx context.Context, params audit.ListParams) ([]*audit.Entry, int64, error) {
	var models []AuditLogModel
	var total int64

	query := getDB(ctx, r.db).Model(&AuditLogModel{})
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Action != "" {
		query = query.Where("action = ?", params.Action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询审计日志总数失败")
	}

	limit, offset := paging(params.Page, params.PageSize)
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询审计日志失败")
	}

	entries := make([]*audit.Entry, len(models))
	for i, m := range models {
		entries[i] = &audit.Entry{
			ID:        m.ID,
			UserID:    m.UserID,
			Action:    m.Action,
			Details:   m.Details,
			CreatedAt: m.CreatedAt,
		}
	}
	return entries, total, nil
}
