package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/inventory-pos/internal/application/user"
	"github.com/xiebiao/inventory-pos/internal/domain/user"
	"github.com/xiebiao/inventory-pos/internal/interface/http/dto"
	"github.com/xiebiao/inventory-pos/internal/interface/http/middleware"
	"github.com/xiebiao/inventory-pos/pkg/response"
)

// UserHandler 认证与用户管理HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
type UserHandler struct {
	authUseCase   *appuser.AuthUseCase
	manageUseCase *appuser.ManageUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(authUseCase *appuser.AuthUseCase, manageUseCase *appuser.ManageUseCase) *UserHandler {
	return &UserHandler{
		authUseCase:   authUseCase,
		manageUseCase: manageUseCase,
	}
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证用户名密码，返回JWT Token对
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Router       /api/v1/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), appuser.LoginRequest{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewLoginResponse(result))
}

// Refresh 刷新Token
// @Summary      刷新Token
// @Description  使用Refresh Token换取新的Token对，旧Refresh Token作废
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=dto.LoginResponse}
// @Failure      401 {object} response.Response "Token无效或已过期"
// @Router       /api/v1/auth/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewLoginResponse(result))
}

// Logout 登出
// @Summary      登出
// @Description  删除会话并使当前Access Token失效
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	if err := h.authUseCase.Logout(c.Request.Context(), userID, middleware.GetAccessToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Me 当前登录用户
// @Summary      当前用户信息
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.UserInfo}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	info, err := h.manageUseCase.Me(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewUserInfo(*info))
}

// Create 创建用户
// @Summary      创建用户
// @Description  管理员创建收银员、店长或管理员账号
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateUserRequest true "用户信息"
// @Success      201 {object} response.Response{data=dto.UserInfo}
// @Failure      400 {object} response.Response "参数错误、密码强度不足或用户名已存在"
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	info, err := h.manageUseCase.Create(c.Request.Context(), appuser.CreateUserRequest{
		Username:   req.Username,
		Password:   req.Password,
		Role:       user.Role(req.Role),
		OperatorID: middleware.GetUserIDPtr(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewUserInfo(*info))
}

// List 用户列表
// @Summary      用户列表
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.UserInfo}}
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	q.Normalize()

	users, total, err := h.manageUseCase.List(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.UserInfo, 0, len(users))
	for _, u := range users {
		list = append(list, dto.NewUserInfo(u))
	}
	response.SuccessWithPage(c, list, total, q.Page, q.PageSize)
}
