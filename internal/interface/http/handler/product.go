package handler

import (
	"github.com/gin-gonic/gin"

	appproduct "github.com/xiebiao/inventory-pos/internal/application/product"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/interface/http/dto"
	"github.com/xiebiao/inventory-pos/internal/interface/http/middleware"
	"github.com/xiebiao/inventory-pos/pkg/response"
)

// ProductHandler 商品HTTP处理器
type ProductHandler struct {
	productUseCase *appproduct.UseCase
}

// NewProductHandler 创建商品处理器
func NewProductHandler(productUseCase *appproduct.UseCase) *ProductHandler {
	return &ProductHandler{productUseCase: productUseCase}
}

// Create 创建商品
// @Summary      创建商品
// @Description  opening_quantity大于0时同时写入一条期初IN流水
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProductRequest true "商品信息"
// @Success      201 {object} response.Response{data=dto.ProductResponse}
// @Failure      400 {object} response.Response "参数错误或零件号已存在"
// @Failure      404 {object} response.Response "存储点不存在"
// @Router       /api/v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	p, err := h.productUseCase.Create(c.Request.Context(), appproduct.CreateRequest{
		Name:            req.Name,
		Description:     req.Description,
		PartNumber:      req.PartNumber,
		Type:            product.Type(req.Type),
		Location:        product.Location(req.Location),
		Value:           req.Value,
		MinQuantity:     req.MinQuantity,
		MaxQuantity:     req.MaxQuantity,
		StorageSiteID:   req.StorageSiteID,
		OpeningQuantity: req.OpeningQuantity,
		UserID:          middleware.GetUserIDPtr(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewProductResponse(p))
}

// Update 修改商品
// @Summary      修改商品
// @Description  只修改目录属性，库存数量只能通过库存操作变更
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "商品ID"
// @Param        request body dto.UpdateProductRequest true "修改字段"
// @Success      200 {object} response.Response{data=dto.ProductResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	p, err := h.productUseCase.Update(c.Request.Context(), id, req.Changes(), middleware.GetUserIDPtr(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewProductResponse(p))
}

// Delete 删除商品
// @Summary      删除商品
// @Description  软删除，历史流水与销售明细保留
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.productUseCase.Delete(c.Request.Context(), id, middleware.GetUserIDPtr(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Get 商品详情
// @Summary      商品详情
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response{data=dto.ProductResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.productUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewProductResponse(p))
}

// List 商品列表
// @Summary      商品列表
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "页码" default(1)
// @Param        page_size query int    false "每页数量" default(20)
// @Param        keyword   query string false "名称或零件号"
// @Param        type      query string false "类别" Enums(accessories, merchandise, workshop)
// @Param        location  query string false "位置" Enums(warehouse, store)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.ProductResponse}}
// @Router       /api/v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	req.Normalize()

	list, total, err := h.productUseCase.List(c.Request.Context(), product.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Type:     product.Type(req.Type),
		Location: product.Location(req.Location),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, dto.NewProductList(list), total, req.Page, req.PageSize)
}
