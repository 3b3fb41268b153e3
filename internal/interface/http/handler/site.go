package handler

import (
	"github.com/gin-gonic/gin"

	appsite "github.com/xiebiao/inventory-pos/internal/application/site"
	"github.com/xiebiao/inventory-pos/internal/domain/site"
	"github.com/xiebiao/inventory-pos/internal/interface/http/dto"
	"github.com/xiebiao/inventory-pos/internal/interface/http/middleware"
	"github.com/xiebiao/inventory-pos/pkg/response"
)

// SiteHandler 存储点HTTP处理器
type SiteHandler struct {
	siteUseCase *appsite.UseCase
}

// NewSiteHandler 创建存储点处理器
func NewSiteHandler(siteUseCase *appsite.UseCase) *SiteHandler {
	return &SiteHandler{siteUseCase: siteUseCase}
}

// Create 创建存储点
// @Summary      创建存储点
// @Tags         存储点
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateSiteRequest true "存储点信息"
// @Success      201 {object} response.Response{data=dto.SiteResponse}
// @Failure      400 {object} response.Response "参数错误或名称重复"
// @Router       /api/v1/storage-sites [post]
func (h *SiteHandler) Create(c *gin.Context) {
	var req dto.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	s, err := h.siteUseCase.Create(c.Request.Context(), req.Name, req.Fields(), middleware.GetUserIDPtr(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewSiteResponse(s))
}

// Update 修改存储点
// @Summary      修改存储点
// @Description  is_active=false即停用，停用的存储点不能参与调拨
// @Tags         存储点
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true "存储点ID"
// @Param        request body dto.UpdateSiteRequest true "修改字段"
// @Success      200 {object} response.Response{data=dto.SiteResponse}
// @Failure      404 {object} response.Response "存储点不存在"
// @Router       /api/v1/storage-sites/{id} [put]
func (h *SiteHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	s, err := h.siteUseCase.Update(c.Request.Context(), id, req.Fields(), middleware.GetUserIDPtr(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewSiteResponse(s))
}

// Delete 删除存储点
// @Summary      删除存储点
// @Description  仍有商品位于该存储点时拒绝删除
// @Tags         存储点
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "存储点ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "存储点仍被引用"
// @Failure      404 {object} response.Response "存储点不存在"
// @Router       /api/v1/storage-sites/{id} [delete]
func (h *SiteHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.siteUseCase.Delete(c.Request.Context(), id, middleware.GetUserIDPtr(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Get 存储点详情
// @Summary      存储点详情
// @Tags         存储点
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "存储点ID"
// @Success      200 {object} response.Response{data=dto.SiteResponse}
// @Failure      404 {object} response.Response "存储点不存在"
// @Router       /api/v1/storage-sites/{id} [get]
func (h *SiteHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := h.siteUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewSiteResponse(s))
}

// List 存储点列表
// @Summary      存储点列表
// @Tags         存储点
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int  false "页码" default(1)
// @Param        page_size query int  false "每页数量" default(20)
// @Param        active    query bool false "按启用状态过滤"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.SiteResponse}}
// @Router       /api/v1/storage-sites [get]
func (h *SiteHandler) List(c *gin.Context) {
	var req dto.ListSitesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	req.Normalize()

	list, total, err := h.siteUseCase.List(c.Request.Context(), site.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Active:   req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewSiteList(list), total, req.Page, req.PageSize)
}
