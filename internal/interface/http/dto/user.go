package dto

import (
	appuser "github.com/xiebiao/inventory-pos/internal/application/user"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50" example:"admin"`
	Password string `json:"password" binding:"required,max=64" example:"Admin12345"`
}

// RefreshRequest 刷新Token请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateUserRequest 创建用户请求（仅管理员）
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"cashier01"`
	Password string `json:"password" binding:"required,min=8,max=64" example:"Cashier123"`
	Role     string `json:"role" binding:"required,oneof=admin manager cashier" example:"cashier"`
}

// UserInfo 用户信息（不包含密码）
type UserInfo struct {
	ID        uint   `json:"id" example:"1"`
	Username  string `json:"username" example:"admin"`
	Role      string `json:"role" example:"admin"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// LoginResponse 登录/刷新响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in" example:"7200"` // Access Token过期时间（秒）
}

// NewUserInfo 应用层用户信息转换为HTTP响应
func NewUserInfo(u appuser.UserInfo) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: FormatTime(u.CreatedAt),
	}
}

// NewLoginResponse 登录结果转换为HTTP响应
func NewLoginResponse(r *appuser.LoginResponse) *LoginResponse {
	return &LoginResponse{
		User:         NewUserInfo(r.User),
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
	}
}
