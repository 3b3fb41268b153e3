package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/inventory-pos/internal/application/inventory"
	"github.com/xiebiao/inventory-pos/internal/interface/http/dto"
	"github.com/xiebiao/inventory-pos/internal/interface/http/middleware"
	"github.com/xiebiao/inventory-pos/pkg/response"
)

// InventoryHandler 库存HTTP处理器
// 所有库存变动都写入流水，商品库存是流水的投影
type InventoryHandler struct {
	stockUseCase *appinventory.StockUseCase
	queryUseCase *appinventory.QueryUseCase
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(stockUseCase *appinventory.StockUseCase, queryUseCase *appinventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{
		stockUseCase: stockUseCase,
		queryUseCase: queryUseCase,
	}
}

// Add 入库
// @Summary      入库
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "商品ID"
// @Param        request body dto.StockMovementRequest true "入库数量"
// @Success      200 {object} response.Response{data=dto.MovementResponse}
// @Failure      400 {object} response.Response "数量非法"
// @Failure      404 {object} response.Response "商品或存储点不存在"
// @Router       /api/v1/inventory/products/{id}/add [post]
func (h *InventoryHandler) Add(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.stockUseCase.Add(c.Request.Context(), req.Movement(id, middleware.GetUserIDPtr(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewMovementResponse(result))
}

// Remove 出库
// @Summary      出库
// @Description  库存不足时返回400，data中携带需求量与可用量
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "商品ID"
// @Param        request body dto.StockMovementRequest true "出库数量"
// @Success      200 {object} response.Response{data=dto.MovementResponse}
// @Failure      400 {object} response.Response "库存不足"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/inventory/products/{id}/remove [post]
func (h *InventoryHandler) Remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.stockUseCase.Remove(c.Request.Context(), req.Movement(id, middleware.GetUserIDPtr(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewMovementResponse(result))
}

// Transfer 调拨
// @Summary      调拨
// @Description  写入TRANSFER_OUT与TRANSFER_IN一对流水，库存数量不变，商品移至调入存储点
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                  true "商品ID"
// @Param        request body dto.TransferRequest true "调拨信息"
// @Success      200 {object} response.Response{data=dto.MovementResponse}
// @Failure      400 {object} response.Response "库存不足、存储点相同或已停用"
// @Failure      404 {object} response.Response "商品或存储点不存在"
// @Router       /api/v1/inventory/products/{id}/transfer [post]
func (h *InventoryHandler) Transfer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.stockUseCase.Transfer(c.Request.Context(), req.Movement(id, middleware.GetUserIDPtr(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewMovementResponse(result))
}

// Adjust 盘点调整
// @Summary      盘点调整
// @Description  change带符号；调整后库存不能为负
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                true "商品ID"
// @Param        request body dto.AdjustRequest true "调整信息"
// @Success      200 {object} response.Response{data=dto.MovementResponse}
// @Failure      400 {object} response.Response "调整量为0、缺少原因或库存不足"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/inventory/products/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.stockUseCase.Adjust(c.Request.Context(), appinventory.AdjustRequest{
		ProductID: id,
		Change:    req.Change,
		Reason:    req.Reason,
		UserID:    middleware.GetUserIDPtr(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewMovementResponse(result))
}

// History 库存流水
// @Summary      库存流水
// @Description  最近的流水在前
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int true  "商品ID"
// @Param        limit query int false "条数" default(50)
// @Success      200 {object} response.Response{data=[]dto.TransactionResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/inventory/products/{id}/history [get]
func (h *InventoryHandler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	views, err := h.queryUseCase.History(c.Request.Context(), id, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewHistory(views))
}

// Reconcile 对账
// @Summary      库存对账
// @Description  比较商品库存与流水带符号合计
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response{data=dto.ReconcileResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/inventory/products/{id}/reconcile [get]
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.queryUseCase.Reconcile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewReconcileResponse(rec))
}

// LowStock 低库存预警
// @Summary      低库存预警
// @Description  库存小于等于最低库存的商品
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.ProductResponse}
// @Router       /api/v1/inventory/alerts/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	list, err := h.queryUseCase.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewProductList(list))
}

// Overstock 超储预警
// @Summary      超储预警
// @Description  设置了最高库存且超出的商品
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.ProductResponse}
// @Router       /api/v1/inventory/alerts/overstock [get]
func (h *InventoryHandler) Overstock(c *gin.Context) {
	list, err := h.queryUseCase.Overstock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewProductList(list))
}
