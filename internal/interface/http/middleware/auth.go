package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/inventory-pos/internal/domain/user"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
	"github.com/xiebiao/inventory-pos/pkg/jwt"
	"github.com/xiebiao/inventory-pos/pkg/response"
)

// Context键
const (
	ctxUserID      = "user_id"
	ctxUsername    = "username"
	ctxRole        = "role"
	ctxAccessToken = "access_token"
)

// TokenBlacklist 已登出Token查询（redis.SessionStore / memory.SessionStore）
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token有效性
// 4. 将用户ID、用户名、角色注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.GET("/users/me", handler.Me)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 已登出的Token
		blacklisted, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, apperrors.Wrap(err, "验证Token失败"))
			c.Abort()
			return
		}
		if blacklisted {
			response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxRole, user.Role(claims.Role))
		c.Set(ctxAccessToken, tokenString)

		c.Next()
	}
}

// RequireRole 要求至少具备role权限（admin ⊇ manager ⊇ cashier）
// 必须挂在RequireAuth之后
func RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetRole(c).AtLeast(role) {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 从Context获取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if uid, ok := v.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetUserIDPtr 当前用户ID的指针形式，写入流水、审计时使用
func GetUserIDPtr(c *gin.Context) *uint {
	uid := GetUserID(c)
	if uid == 0 {
		return nil
	}
	return &uid
}

// GetRole 从Context获取当前用户角色
func GetRole(c *gin.Context) user.Role {
	if v, ok := c.Get(ctxRole); ok {
		if role, ok := v.(user.Role); ok {
			return role
		}
	}
	return ""
}

// GetAccessToken 当前请求携带的Access Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}

// MustGetUserID 从Context获取用户ID（如果不存在则panic）
// 用于已经通过RequireAuth中间件的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}
