package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	"github.com/xiebiao/inventory-pos/internal/domain/user"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
	"github.com/xiebiao/inventory-pos/pkg/jwt"
)

// SessionStore 会话与Token黑名单（Redis或内存实现）
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error
	GetSession(ctx context.Context, userID uint) (map[string]string, error)
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthUseCase 登录、刷新、登出
// 设计说明：
// 1. 验证用户名密码
// 2. 生成JWT Token对（Access Token携带角色）
// 3. 会话保存到Redis，登出时Access Token进入黑名单
type AuthUseCase struct {
	userService  user.Service
	userRepo     user.Repository
	auditRepo    audit.Repository
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	logger       *zap.Logger
}

// NewAuthUseCase 创建认证用例
func NewAuthUseCase(
	userService user.Service,
	userRepo user.Repository,
	auditRepo audit.Repository,
	jwtManager *jwt.Manager,
	sessionStore SessionStore,
	logger *zap.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userService:  userService,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// Login 执行登录
func (uc *AuthUseCase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证用户名密码（调用领域服务）
	u, err := uc.userService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, err
	}

	// 3. 保存会话，有效期与Refresh Token一致
	sessionData := map[string]interface{}{
		"user_id":  u.ID,
		"username": u.Username,
		"role":     string(u.Role),
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.jwtManager.RefreshTokenTTL()); err != nil {
		// 会话保存失败不影响登录
		uc.logger.Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	uid := u.ID
	if err := audit.Record(ctx, uc.auditRepo, &uid, audit.ActionLogin, map[string]interface{}{"ip": req.ClientIP}); err != nil {
		uc.logger.Warn("写入登录审计失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return &LoginResponse{
		User:         toUserInfo(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// Refresh 用Refresh Token换取新的Token对
// 角色以数据库中的最新值为准；会话已删除（已登出）时拒绝
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := uc.sessionStore.IsInBlacklist(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}
	if _, err := uc.sessionStore.GetSession(ctx, claims.UserID); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	u, err := uc.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, err
	}

	// 旧的Refresh Token作废，防止重复使用
	if err := uc.sessionStore.AddToBlacklist(ctx, refreshToken, uc.jwtManager.RefreshTokenTTL()); err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:         toUserInfo(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// Logout 执行登出
func (uc *AuthUseCase) Logout(ctx context.Context, userID uint, accessToken string) error {
	// 1. 删除会话（之后Refresh Token也无法使用）
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单（防止Token在过期前继续使用）
	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, uc.jwtManager.AccessTokenTTL()); err != nil {
		return err
	}

	if err := audit.Record(ctx, uc.auditRepo, &userID, audit.ActionLogout, map[string]interface{}{}); err != nil {
		uc.logger.Warn("写入登出审计失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	return nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Username string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间（秒）
}

// UserInfo 用户信息（不含密码哈希）
type UserInfo struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserInfo(u *user.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
