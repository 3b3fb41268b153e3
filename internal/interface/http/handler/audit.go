package handler

import (
	"github.com/gin-gonic/gin"

	appaudit "github.com/xiebiao/inventory-pos/internal/application/audit"
	"github.com/xiebiao/inventory-pos/internal/interface/http/dto"
	"github.com/xiebiao/inventory-pos/pkg/response"
)

// AuditHandler 审计日志HTTP处理器
type AuditHandler struct {
	queryUseCase *appaudit.QueryUseCase
}

// NewAuditHandler 创建审计日志处理器
func NewAuditHandler(queryUseCase *appaudit.QueryUseCase) *AuditHandler {
	return &AuditHandler{queryUseCase: queryUseCase}
}

// List 审计日志
// @Summary      审计日志
// @Tags         审计
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "页码" default(1)
// @Param        page_size query int    false "每页数量" default(20)
// @Param        user_id   query int    false "操作人ID"
// @Param        action    query string false "动作，如sale.create"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.AuditLogResponse}}
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var req dto.ListAuditLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	params := req.Params()

	list, total, err := h.queryUseCase.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewAuditLogList(list), total, params.Page, params.PageSize)
}
