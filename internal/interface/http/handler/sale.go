package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appsale "github.com/xiebiao/inventory-pos/internal/application/sale"
	"github.com/xiebiao/inventory-pos/internal/interface/http/dto"
	"github.com/xiebiao/inventory-pos/internal/interface/http/middleware"
	"github.com/xiebiao/inventory-pos/pkg/response"
)

// SaleHandler 销售HTTP处理器
type SaleHandler struct {
	createSaleUseCase *appsale.CreateSaleUseCase
	queryUseCase      *appsale.QueryUseCase
	loc               *time.Location // 列表日期过滤使用的时区
}

// NewSaleHandler 创建销售处理器
func NewSaleHandler(createSaleUseCase *appsale.CreateSaleUseCase, queryUseCase *appsale.QueryUseCase, loc *time.Location) *SaleHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SaleHandler{
		createSaleUseCase: createSaleUseCase,
		queryUseCase:      queryUseCase,
		loc:               loc,
	}
}

// CreateSale 创建销售单
// @Summary      创建销售单
// @Description  在一个事务中锁定商品、校验库存、写入销售单与出库流水；任一行库存不足则整单回滚
// @Tags         销售
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateSaleRequest true "购物车"
// @Success      201 {object} response.Response{data=dto.SaleResponse}
// @Failure      400 {object} response.Response "参数错误、库存不足或售价与目录价不一致"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	s, err := h.createSaleUseCase.Execute(c.Request.Context(), req.ToCommand(middleware.GetUserIDPtr(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewSaleResponse(s))
}

// Get 销售单详情
// @Summary      销售单详情
// @Tags         销售
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "销售单ID"
// @Success      200 {object} response.Response{data=dto.SaleResponse}
// @Failure      404 {object} response.Response "销售单不存在"
// @Router       /api/v1/sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := h.queryUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewSaleResponse(s))
}

// List 销售单列表
// @Summary      销售单列表
// @Description  按创建时间倒序，不含明细
// @Tags         销售
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "页码" default(1)
// @Param        page_size query int    false "每页数量" default(20)
// @Param        from      query string false "开始日期 YYYY-MM-DD"
// @Param        to        query string false "结束日期 YYYY-MM-DD（包含）"
// @Param        user_id   query int    false "收银员ID"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.SaleResponse}}
// @Router       /api/v1/sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var req dto.ListSalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	params, err := req.Params(h.loc)
	if err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.queryUseCase.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewSaleList(list), total, params.Page, params.PageSize)
}
