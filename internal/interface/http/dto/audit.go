package dto

import (
	"encoding/json"

	"github.com/xiebiao/inventory-pos/internal/domain/audit"
)

// ListAuditLogsRequest 审计日志查询参数
type ListAuditLogsRequest struct {
	PageQuery
	UserID *uint  `form:"user_id" example:"1"`
	Action string `form:"action" binding:"omitempty,max=50" example:"sale.create"`
}

// Params 转换为仓储查询参数
func (r *ListAuditLogsRequest) Params() audit.ListParams {
	r.Normalize()
	return audit.ListParams{
		Page:     r.Page,
		PageSize: r.PageSize,
		UserID:   r.UserID,
		Action:   r.Action,
	}
}

// AuditLogResponse 审计日志
type AuditLogResponse struct {
	ID        uint            `json:"id" example:"1"`
	UserID    *uint           `json:"user_id" example:"1"`
	Action    string          `json:"action" example:"sale.create"`
	Details   json.RawMessage `json:"details" swaggertype:"object"`
	CreatedAt string          `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// NewAuditLogList 批量转换，details原样输出为JSON对象
func NewAuditLogList(list []*audit.Entry) []*AuditLogResponse {
	out := make([]*AuditLogResponse, 0, len(list))
	for _, e := range list {
		details := json.RawMessage(e.Details)
		if !json.Valid(details) {
			details = json.RawMessage("null")
		}
		out = append(out, &AuditLogResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Details:   details,
			CreatedAt: FormatTime(e.CreatedAt),
		})
	}
	return out
}
